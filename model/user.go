package model

// Contact channel enum shared with the backend.
const (
	ConnectionQQ     = 1
	ConnectionWeChat = 2
	ConnectionPhone  = 3
)

// User 用户资料。除 id/phone 外的字段都由用户在个人页自行补全。
type User struct {
	ID             int64  `json:"id"`
	Phone          string `json:"phone,omitempty"`
	Nickname       string `json:"nickname,omitempty"`
	Grade          string `json:"grade,omitempty"`
	MajorID        int64  `json:"majorId,omitempty"`
	Connection     string `json:"connection,omitempty"`
	ConnectionType int    `json:"connection_type,omitempty"`
	PhoneWithMask  string `json:"phone_number_with_mask,omitempty"`
}

// Complete reports whether the profile has every field the marketplace
// needs before other students can reach the user: nickname, grade, major,
// contact value and contact channel. Drives the "请完善个人信息" banner.
func (u *User) Complete() bool {
	return u.Nickname != "" &&
		u.Grade != "" &&
		u.MajorID != 0 &&
		u.Connection != "" &&
		u.ConnectionType != 0
}

// ConnectionTypeText 联系方式类型的展示文案。
func ConnectionTypeText(t int) string {
	switch t {
	case ConnectionQQ:
		return "QQ"
	case ConnectionWeChat:
		return "微信"
	case ConnectionPhone:
		return "电话"
	default:
		return ""
	}
}

// Major 专业，静态参考数据，用于个人资料中的专业设置。
type Major struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
