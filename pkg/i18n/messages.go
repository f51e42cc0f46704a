package i18n

// DefaultMessages returns built-in translations for all supported locales.
// JSON files loaded with LoadDir override them.
func DefaultMessages() map[Locale]map[string]string {
	return map[Locale]map[string]string{
		LocaleAr: arMessages,
		LocaleEn: enMessages,
	}
}

var arMessages = map[string]string{
	"error.not_found":         "العنصر المطلوب غير موجود",
	"error.unauthorized":      "يجب تسجيل الدخول أولاً",
	"error.forbidden":         "ليس لديك صلاحية للقيام بهذا الإجراء",
	"error.bad_request":       "طلب غير صالح",
	"error.internal":          "حدث خطأ في الخادم",
	"error.too_many_requests": "طلبات كثيرة جداً، يرجى المحاولة لاحقاً",
	"error.validation":        "البيانات المدخلة غير صحيحة",

	"auth.login_success":       "تم تسجيل الدخول بنجاح",
	"auth.invalid_credentials": "البريد الإلكتروني أو كلمة المرور غير صحيحة",
	"auth.account_disabled":    "الحساب معطل",
	"auth.token_expired":       "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مجدداً",
	"auth.token_invalid":       "رمز الدخول غير صالح",
	"auth.logout_success":      "تم تسجيل الخروج",

	"article.not_found":      "المقال غير موجود",
	"article.not_owner":      "يمكنك تعديل مقالاتك فقط",
	"article.slug_taken":     "الـ slug مستخدم بالفعل",
	"article.slug_exhausted": "تعذر توليد slug فريد للمقال",
	"article.deleted":        "تم حذف المقال",
	"revision.not_found":     "النسخة غير موجودة",
	"revision.conflict":      "تم حفظ تعديل آخر في الوقت نفسه، أعد المحاولة",
	"comment.not_found":      "التعليق غير موجود",
	"workflow.invalid":       "حالة المقال غير صالحة",

	"category.not_found": "القسم غير موجود",
	"category.deleted":   "تم حذف القسم",

	"user.not_found":      "المستخدم غير موجود",
	"user.email_taken":    "البريد الإلكتروني مستخدم بالفعل",
	"user.self_delete":    "لا يمكنك حذف حسابك الخاص",
	"user.role_forbidden": "تغيير الدور أو حالة الحساب متاح للمدير فقط",
	"user.deleted":        "تم حذف المستخدم",
	"user.password_reset": "تم تغيير كلمة المرور",

	"tag.not_found":   "الوسم غير موجود",
	"tag.removed":     "تمت إزالة الوسم",
	"media.not_found": "الملف غير موجود",
	"media.not_image": "يُسمح برفع الصور فقط",
	"media.too_large": "حجم الملف يتجاوز 5 ميغابايت",
	"media.deleted":   "تم حذف الملف",

	"notification.not_found": "الإشعار غير موجود",
	"notification.read":      "تم تعليم الإشعارات كمقروءة",

	"notify.status_changed.title":     "تغيرت حالة مقالك",
	"notify.status_changed.message":   "تم نقل المقال \"%s\" من %s إلى %s",
	"notify.comment_added.title":      "ملاحظة تحريرية جديدة",
	"notify.comment_added.message":    "أضاف %s ملاحظة على المقال \"%s\"",
	"notify.comment_resolved.title":   "تمت معالجة ملاحظة",
	"notify.comment_resolved.message": "تم حل ملاحظة على المقال \"%s\"",

	"status.draft":     "مسودة",
	"status.review":    "قيد المراجعة",
	"status.approved":  "معتمد",
	"status.scheduled": "مجدول",
	"status.published": "منشور",
	"status.killed":    "ملغى",
	"status.archived":  "مؤرشف",
}

var enMessages = map[string]string{
	"error.not_found":         "The requested resource was not found",
	"error.unauthorized":      "Authentication required",
	"error.forbidden":         "You do not have permission to perform this action",
	"error.bad_request":       "Bad request",
	"error.internal":          "Internal server error",
	"error.too_many_requests": "Too many requests. Please try again later",
	"error.validation":        "Invalid input",

	"auth.login_success":       "Successfully logged in",
	"auth.invalid_credentials": "Invalid email or password",
	"auth.account_disabled":    "Account is disabled",
	"auth.token_expired":       "Session expired. Please log in again",
	"auth.token_invalid":       "Invalid token",
	"auth.logout_success":      "Successfully logged out",

	"article.not_found":      "Article not found",
	"article.not_owner":      "You can only edit your own articles",
	"article.slug_taken":     "Slug is already in use",
	"article.slug_exhausted": "Could not generate a unique slug",
	"article.deleted":        "Article deleted",
	"revision.not_found":     "Revision not found",
	"revision.conflict":      "Another edit was saved at the same time, please retry",
	"comment.not_found":      "Comment not found",
	"workflow.invalid":       "Invalid article status",

	"category.not_found": "Category not found",
	"category.deleted":   "Category deleted",

	"user.not_found":      "User not found",
	"user.email_taken":    "Email is already in use",
	"user.self_delete":    "You cannot delete your own account",
	"user.role_forbidden": "Only admins can change role or account status",
	"user.deleted":        "User deleted",
	"user.password_reset": "Password changed",

	"tag.not_found":   "Tag not found",
	"tag.removed":     "Tag removed",
	"media.not_found": "File not found",
	"media.not_image": "Only images can be uploaded",
	"media.too_large": "File exceeds 5MB",
	"media.deleted":   "File deleted",

	"notification.not_found": "Notification not found",
	"notification.read":      "Notifications marked as read",

	"notify.status_changed.title":     "Your article status changed",
	"notify.status_changed.message":   "Article \"%s\" moved from %s to %s",
	"notify.comment_added.title":      "New editorial note",
	"notify.comment_added.message":    "%s left a note on \"%s\"",
	"notify.comment_resolved.title":   "Editorial note resolved",
	"notify.comment_resolved.message": "A note on \"%s\" was resolved",

	"status.draft":     "Draft",
	"status.review":    "In review",
	"status.approved":  "Approved",
	"status.scheduled": "Scheduled",
	"status.published": "Published",
	"status.killed":    "Killed",
	"status.archived":  "Archived",
}
