package clickupapi

// FolderRequest identifies a single folder.
type FolderRequest struct {
	FolderID string
}

func NewFolderRequest(folderID string) (*FolderRequest, error) {
	if folderID == "" {
		return nil, validationErr("folder_id", "folder_id is required")
	}
	return &FolderRequest{FolderID: folderID}, nil
}

// FoldersRequest lists the folders of a space.
type FoldersRequest struct {
	SpaceID  string
	Archived bool
}

func NewFoldersRequest(spaceID string) (*FoldersRequest, error) {
	if spaceID == "" {
		return nil, validationErr("space_id", "space_id is required")
	}
	return &FoldersRequest{SpaceID: spaceID}, nil
}

// CreateFolderRequest carries the fields for POST /space/{space_id}/folder.
// SpaceID routes the request and never appears in the body.
type CreateFolderRequest struct {
	SpaceID string
	Name    string
}

func NewCreateFolderRequest(spaceID, name string) (*CreateFolderRequest, error) {
	if spaceID == "" {
		return nil, validationErr("space_id", "space_id is required when creating a folder")
	}
	if name == "" {
		return nil, validationErr("name", "name is required when creating a folder")
	}
	return &CreateFolderRequest{SpaceID: spaceID, Name: name}, nil
}

// UpdateFolderRequest carries a partial update for PUT /folder/{folder_id}.
type UpdateFolderRequest struct {
	FolderID string
	Name     Opt[string]
}

func NewUpdateFolderRequest(folderID string) (*UpdateFolderRequest, error) {
	if folderID == "" {
		return nil, validationErr("folder_id", "folder_id is required")
	}
	return &UpdateFolderRequest{FolderID: folderID}, nil
}

// Folder is the flattened view of a ClickUp folder.
type Folder struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OrderIndex       int       `json:"orderindex,omitempty"`
	OverrideStatuses bool      `json:"overrideStatuses,omitempty"`
	Hidden           bool      `json:"hidden,omitempty"`
	SpaceID          string    `json:"spaceId,omitempty"`
	TaskCount        int       `json:"taskCount,omitempty"`
	Archived         bool      `json:"archived,omitempty"`
	Lists            []any     `json:"lists,omitempty"`
	Extra            RawFields `json:"-"`
}

func (f Folder) MarshalJSON() ([]byte, error) {
	type plain Folder
	return marshalWithExtra(plain(f), f.Extra)
}

var folderKnownFields = keySet(
	"id", "name", "orderindex", "override_statuses", "hidden", "space",
	"task_count", "archived", "lists",
)

// ExtractFolder flattens a raw folder payload. The nested space object
// is projected to its ID; list summaries pass through loosely typed.
func ExtractFolder(raw map[string]any) *Folder {
	f := &Folder{
		ID:               idField(raw, "id"),
		Name:             strField(raw, "name"),
		OrderIndex:       intField(raw, "orderindex"),
		OverrideStatuses: boolField(raw, "override_statuses"),
		Hidden:           boolField(raw, "hidden"),
		TaskCount:        intField(raw, "task_count"),
		Archived:         boolField(raw, "archived"),
		Lists:            sliceField(raw, "lists"),
		Extra:            extraFields(raw, folderKnownFields),
	}
	if space := mapField(raw, "space"); space != nil {
		f.SpaceID = idField(space, "id")
	}
	return f
}

// ExtractFolders flattens the "folders" collection of a listing response.
func ExtractFolders(raw map[string]any) []*Folder {
	items := sliceField(raw, "folders")
	folders := make([]*Folder, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		folders = append(folders, ExtractFolder(m))
	}
	return folders
}

// ExtractCreateFolderData builds the POST body for folder creation.
func ExtractCreateFolderData(r *CreateFolderRequest) map[string]any {
	return map[string]any{"name": r.Name}
}

// ExtractUpdateFolderData builds the PUT body for a partial folder update.
func ExtractUpdateFolderData(r *UpdateFolderRequest) map[string]any {
	data := map[string]any{}
	if v, ok := r.Name.Get(); ok {
		data["name"] = v
	}
	return data
}
