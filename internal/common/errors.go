package common

import (
	"errors"
	"net/http"

	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/pkg/jwt"
)

// Business logic errors
var (
	// Authorization
	ErrUnauthorized     = domain.ErrNoActor
	ErrForbidden        = domain.ErrInsufficientRole
	ErrNotOwner         = errors.New("not the resource owner")
	ErrSelfDelete       = errors.New("cannot delete own account")
	ErrRoleChangeDenied = errors.New("only admins can change role or active state")

	// Auth
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidToken       = jwt.ErrInvalidToken
	ErrExpiredToken       = jwt.ErrExpiredToken

	// Not found
	ErrNotFound             = errors.New("resource not found")
	ErrArticleNotFound      = errors.New("article not found")
	ErrRevisionNotFound     = errors.New("revision not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrMediaNotFound        = errors.New("media not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Validation
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("invalid article status")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrSlugExhausted = errors.New("could not allocate unique slug")
	ErrEmailTaken    = errors.New("email already in use")
	ErrNotImage      = errors.New("only images are allowed")
	ErrFileTooLarge  = errors.New("file too large")
	ErrRevisionRace  = errors.New("concurrent revision write")
)

type errorMapping struct {
	err    error
	status int
	key    string
}

var errorMappings = []errorMapping{
	{ErrUnauthorized, http.StatusUnauthorized, "error.unauthorized"},
	{ErrInvalidToken, http.StatusUnauthorized, "auth.token_invalid"},
	{ErrExpiredToken, http.StatusUnauthorized, "auth.token_expired"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "auth.invalid_credentials"},
	{ErrAccountDisabled, http.StatusForbidden, "auth.account_disabled"},
	{ErrForbidden, http.StatusForbidden, "error.forbidden"},
	{ErrNotOwner, http.StatusForbidden, "article.not_owner"},
	{ErrSelfDelete, http.StatusForbidden, "user.self_delete"},
	{ErrRoleChangeDenied, http.StatusForbidden, "user.role_forbidden"},

	{ErrArticleNotFound, http.StatusNotFound, "article.not_found"},
	{ErrRevisionNotFound, http.StatusNotFound, "revision.not_found"},
	{ErrCommentNotFound, http.StatusNotFound, "comment.not_found"},
	{ErrCategoryNotFound, http.StatusNotFound, "category.not_found"},
	{ErrUserNotFound, http.StatusNotFound, "user.not_found"},
	{ErrTagNotFound, http.StatusNotFound, "tag.not_found"},
	{ErrMediaNotFound, http.StatusNotFound, "media.not_found"},
	{ErrNotificationNotFound, http.StatusNotFound, "notification.not_found"},
	{ErrNotFound, http.StatusNotFound, "error.not_found"},

	{ErrInvalidStatus, http.StatusBadRequest, "workflow.invalid"},
	{ErrInvalidInput, http.StatusBadRequest, "error.validation"},
	{ErrNotImage, http.StatusBadRequest, "media.not_image"},
	{ErrFileTooLarge, http.StatusRequestEntityTooLarge, "media.too_large"},
	{ErrSlugTaken, http.StatusConflict, "article.slug_taken"},
	{ErrSlugExhausted, http.StatusConflict, "article.slug_exhausted"},
	{ErrEmailTaken, http.StatusConflict, "user.email_taken"},
	{ErrRevisionRace, http.StatusConflict, "revision.conflict"},
}

// StatusFor maps an error to its HTTP status and message key.
// Unknown errors are internal.
func StatusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.key
		}
	}
	return http.StatusInternalServerError, "error.internal"
}
