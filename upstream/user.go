package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"penquan/model"
)

// UserAPI 用户资料与专业参考数据。
type UserAPI struct {
	c *Client
}

func NewUserAPI(c *Client) *UserAPI {
	return &UserAPI{c: c}
}

// UserPatch carries only the profile fields being changed. Field names
// follow the current backend contract (majorId, connection_type).
type UserPatch struct {
	Nickname       *string `json:"nickname,omitempty"`
	Grade          *string `json:"grade,omitempty"`
	MajorID        *int64  `json:"majorId,omitempty"`
	Connection     *string `json:"connection,omitempty"`
	ConnectionType *int    `json:"connection_type,omitempty"`
}

func (u *UserAPI) GetUser(ctx context.Context, token string, id int64) (*model.User, error) {
	var env struct {
		User model.User `json:"user"`
	}
	if err := u.c.get(ctx, fmt.Sprintf("/users/%d", id), token, nil, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

func (u *UserAPI) UpdateUser(ctx context.Context, token string, id int64, patch UserPatch) error {
	var env struct {
		Message string `json:"message"`
	}
	return u.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), token, nil, patch, &env)
}

func (u *UserAPI) ListMajors(ctx context.Context, token string) ([]model.Major, error) {
	var env struct {
		Majors []model.Major `json:"majors"`
	}
	if err := u.c.get(ctx, "/users/majors", token, nil, &env); err != nil {
		return nil, err
	}
	return env.Majors, nil
}

// FindMajorByName resolves a major name to its id. It asks the backend to
// filter first and falls back to scanning the full list, since older
// deployments ignore the national_name query.
func (u *UserAPI) FindMajorByName(ctx context.Context, token, name string) (*model.Major, error) {
	q := url.Values{}
	q.Set("national_name", name)
	var env struct {
		Majors []model.Major `json:"majors"`
	}
	if err := u.c.get(ctx, "/users/majors", token, q, &env); err != nil {
		return nil, err
	}
	majors := env.Majors
	if len(majors) == 0 {
		all, err := u.ListMajors(ctx, token)
		if err != nil {
			return nil, err
		}
		majors = all
	}
	for i := range majors {
		if majors[i].Name == name {
			return &majors[i], nil
		}
	}
	return nil, &Error{Kind: KindNotFound, Message: "major not found"}
}
