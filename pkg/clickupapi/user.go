package clickupapi

// UserRequest fetches the user behind the configured token. It has no
// parameters; the type exists for dispatch symmetry.
type UserRequest struct{}

func NewUserRequest() (*UserRequest, error) {
	return &UserRequest{}, nil
}

// User is the flattened view of a ClickUp user.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username,omitempty"`
	Email          string    `json:"email,omitempty"`
	Color          string    `json:"color,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Initials       string    `json:"initials,omitempty"`
	Timezone       string    `json:"timezone,omitempty"`
	Extra          RawFields `json:"-"`
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return marshalWithExtra(plain(u), u.Extra)
}

var userKnownFields = keySet(
	"id", "username", "email", "color", "profile_picture", "initials",
	"timezone",
)

// ExtractUser flattens a raw user payload. Callers unwrap any outer
// {"user": {...}} envelope before calling.
func ExtractUser(raw map[string]any) *User {
	return &User{
		ID:             idField(raw, "id"),
		Username:       strField(raw, "username"),
		Email:          strField(raw, "email"),
		Color:          strField(raw, "color"),
		ProfilePicture: strField(raw, "profile_picture"),
		Initials:       strField(raw, "initials"),
		Timezone:       strField(raw, "timezone"),
		Extra:          extraFields(raw, userKnownFields),
	}
}
