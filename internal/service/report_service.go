package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the editorial report
const (
	SheetArticles = "Articles"
	SheetWorkflow = "Workflow"
)

const reportTimeLayout = "2006-01-02 15:04"

var (
	articleColumns  = []interface{}{"ID", "Title", "Status", "Author", "Revision", "Published At", "Updated At"}
	workflowColumns = []interface{}{"Article", "From", "To", "User", "Comment", "At"}
)

// ReportService builds the editorial activity workbook
type ReportService struct {
	articles repository.ArticleRepository
	history  repository.WorkflowRepository
	users    repository.UserRepository
}

// NewReportService creates a new ReportService
func NewReportService(articles repository.ArticleRepository, history repository.WorkflowRepository, users repository.UserRepository) *ReportService {
	return &ReportService{articles: articles, history: history, users: users}
}

// ExportEditorial writes an xlsx with the articles updated and the transitions made in [from, to]
func (s *ReportService) ExportEditorial(ctx context.Context, actor *domain.Actor, from, to time.Time, w io.Writer) error {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return err
	}
	if !to.After(from) {
		return common.ErrInvalidInput
	}

	f, err := s.Build(ctx, from, to)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Build assembles the workbook. The caller closes it.
func (s *ReportService) Build(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	articles, err := s.articles.ListUpdatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	history, err := s.history.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(articles)+len(history))
	for _, a := range articles {
		userIDs = append(userIDs, a.AuthorID)
	}
	articleIDs := make([]string, 0, len(history))
	for _, h := range history {
		userIDs = append(userIDs, h.UserID)
		articleIDs = append(articleIDs, h.ArticleID)
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(articles))
	for _, a := range articles {
		titles[a.ID] = a.Title
	}
	if len(articleIDs) > 0 {
		related, err := s.articles.FindByIDs(ctx, articleIDs)
		if err != nil {
			return nil, err
		}
		for _, a := range related {
			titles[a.ID] = a.Title
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetArticles); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetWorkflow); err != nil {
		f.Close()
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	rows := make([][]interface{}, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []interface{}{
			a.ID, a.Title, string(a.Status), userName(users, a.AuthorID),
			a.CurrentRevision, formatTime(a.PublishedAt), a.UpdatedAt.Format(reportTimeLayout),
		})
	}
	if err := writeSheet(f, SheetArticles, articleColumns, rows, header); err != nil {
		f.Close()
		return nil, err
	}

	rows = make([][]interface{}, 0, len(history))
	for _, h := range history {
		comment := ""
		if h.Comment != nil {
			comment = *h.Comment
		}
		title := titles[h.ArticleID]
		if title == "" {
			title = h.ArticleID
		}
		rows = append(rows, []interface{}{
			title, string(h.FromStatus), string(h.ToStatus), userName(users, h.UserID),
			comment, h.CreatedAt.Format(reportTimeLayout),
		})
	}
	if err := writeSheet(f, SheetWorkflow, workflowColumns, rows, header); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, columns []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	return f.SetColWidth(sheet, "A", lastCol, 22)
}

func userName(users map[string]*domain.User, id string) string {
	if u, ok := users[id]; ok && u.Name != "" {
		return u.Name
	}
	if id == domain.SystemActor.ID {
		return domain.SystemActor.Name
	}
	return id
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(reportTimeLayout)
}
