package clickupapi

// TagRequest identifies a tag on a task for add/remove operations.
// Both endpoints are body-less; the tag name travels in the path.
type TagRequest struct {
	TaskID  string
	TagName string
}

func NewTagRequest(taskID, tagName string) (*TagRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	if tagName == "" {
		return nil, validationErr("tag_name", "tag_name is required")
	}
	return &TagRequest{TaskID: taskID, TagName: tagName}, nil
}

// TaskTagsRequest lists the tags on a task.
type TaskTagsRequest struct {
	TaskID string
}

func NewTaskTagsRequest(taskID string) (*TaskTagsRequest, error) {
	if taskID == "" {
		return nil, validationErr("task_id", "task_id is required")
	}
	return &TaskTagsRequest{TaskID: taskID}, nil
}
