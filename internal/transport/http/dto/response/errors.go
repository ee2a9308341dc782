package response

// Error strings surfaced to API callers.
const (
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidRequest     = "Invalid request format"
	MsgAuthorNotFound     = "Author not found"
	MsgCategoriesNotFound = "One or more categories not found"
	MsgTagsNotFound       = "One or more tags not found"
	MsgResourceNotFound   = "Resource not found"
	MsgDuplicateSlug      = "A resource with this slug already exists"
	MsgInternalError      = "Internal server error"
)
