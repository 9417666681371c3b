package clickupapi

// CommentsRequest lists the comments on a task.
type CommentsRequest struct {
	TaskID string
}

func NewCommentsRequest(taskID string) (*CommentsRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	return &CommentsRequest{TaskID: taskID}, nil
}

// CreateCommentRequest carries the fields for POST /task/{task_id}/comment.
type CreateCommentRequest struct {
	TaskID      string
	CommentText string
	NotifyAll   Opt[bool]
	Assignee    Opt[string]
}

func NewCreateCommentRequest(taskID, commentText string) (*CreateCommentRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required when adding a comment")
	}
	if commentText == "" {
		return nil, validationErr("comment_text", "comment_text is required when adding a comment")
	}
	return &CreateCommentRequest{TaskID: taskID, CommentText: commentText}, nil
}

// CommentRequest identifies one comment on a task.
type CommentRequest struct {
	TaskID    string
	CommentID string
}

func NewCommentRequest(taskID, commentID string) (*CommentRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	if commentID == "" {
		return nil, validationErr("comment_id", "comment_id is required")
	}
	return &CommentRequest{TaskID: taskID, CommentID: commentID}, nil
}

// UpdateCommentRequest carries replacement text for
// PUT /task/{task_id}/comment/{comment_id}.
type UpdateCommentRequest struct {
	TaskID      string
	CommentID   string
	CommentText string
}

func NewUpdateCommentRequest(taskID, commentID, commentText string) (*UpdateCommentRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	if commentID == "" {
		return nil, validationErr("comment_id", "comment_id is required")
	}
	if commentText == "" {
		return nil, validationErr("comment_text", "comment_text is required when updating a comment")
	}
	return &UpdateCommentRequest{TaskID: taskID, CommentID: commentID, CommentText: commentText}, nil
}

// Comment is the flattened view of a task comment. The author object
// is projected to its ID and username.
type Comment struct {
	ID       string    `json:"id"`
	Text     string    `json:"text,omitempty"`
	UserID   string    `json:"userId,omitempty"`
	Username string    `json:"username,omitempty"`
	Resolved bool      `json:"resolved,omitempty"`
	Assignee string    `json:"assignee,omitempty"`
	Date     int64     `json:"date,omitempty"`
	Extra    RawFields `json:"-"`
}

func (c Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return marshalWithExtra(plain(c), c.Extra)
}

var commentKnownFields = keySet(
	"id", "comment_text", "comment", "user", "resolved", "assignee", "date",
)

// ExtractComment flattens a raw comment payload.
func ExtractComment(raw map[string]any) *Comment {
	c := &Comment{
		ID:       idField(raw, "id"),
		Text:     strField(raw, "comment_text"),
		Resolved: boolField(raw, "resolved"),
		Date:     int64Field(raw, "date"),
		Extra:    extraFields(raw, commentKnownFields),
	}
	if user := mapField(raw, "user"); user != nil {
		c.UserID = idField(user, "id")
		c.Username = strField(user, "username")
	}
	if assignee := mapField(raw, "assignee"); assignee != nil {
		c.Assignee = idField(assignee, "id")
	}
	return c
}

// ExtractComments flattens the "comments" collection of a listing
// response.
func ExtractComments(raw map[string]any) []*Comment {
	items := sliceField(raw, "comments")
	comments := make([]*Comment, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		comments = append(comments, ExtractComment(m))
	}
	return comments
}

// ExtractCreateCommentData builds the POST body for comment creation.
func ExtractCreateCommentData(r *CreateCommentRequest) map[string]any {
	data := map[string]any{"comment_text": r.CommentText}
	if v, ok := r.NotifyAll.Get(); ok {
		data["notify_all"] = v
	}
	if v, ok := r.Assignee.Get(); ok {
		data["assignee"] = v
	}
	return data
}
