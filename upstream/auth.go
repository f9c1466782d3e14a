package upstream

import (
	"context"
	"net/url"

	"penquan/model"
)

// AuthAPI 登录/注册接口。验证码由后端短信服务下发，这里只负责触发。
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// AuthUser is the login payload: the user profile plus the bearer token
// every authenticated request carries from then on.
type AuthUser struct {
	model.User
	Token string `json:"token"`
}

// SendCode asks the backend to text a verification code to the phone.
func (a *AuthAPI) SendCode(ctx context.Context, phone string) error {
	q := url.Values{}
	q.Set("phone", phone)
	var env struct {
		Message string `json:"message"`
	}
	return a.c.get(ctx, "/login", "", q, &env)
}

// LoginOrRegister exchanges phone + code for the user and a bearer token.
// First-time phones are registered implicitly. This endpoint is the one
// form-encoded holdout in the API.
func (a *AuthAPI) LoginOrRegister(ctx context.Context, phone, code string) (*AuthUser, error) {
	form := url.Values{}
	form.Set("phone", phone)
	form.Set("code", code)

	var env struct {
		User AuthUser `json:"user"`
	}
	if err := a.c.postForm(ctx, "/login", form, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}
