// Package form holds the bound request structs for the page handlers.
// Binding failures are local validation errors: they are rejected before
// any backend call is made.
package form

// SendCode 发送验证码。手机号必须是 1 开头的 11 位数字。
type SendCode struct {
	Phone string `form:"phone" binding:"required,mobile"`
}

// Login 登录/自动注册。必须勾选使用声明。
type Login struct {
	Phone string `form:"phone" binding:"required,mobile"`
	Code  string `form:"code" binding:"required,numeric,min=4,max=6"`
	Agree string `form:"agree" binding:"required"`
}

// NewPost 发布出售/求购。价格按字符串接收再解析，保证非数字输入在本地被拒绝。
type NewPost struct {
	Mode       string   `form:"mode" binding:"required,oneof=sell buy"`
	BookISBN   string   `form:"book_isbn" binding:"required"`
	Price      string   `form:"price" binding:"required,numeric"`
	Conditions []string `form:"conditions"`
	Notes      string   `form:"notes"`
}

// EditPost 修改帖子，仅价格与备注可改。
type EditPost struct {
	Price string `form:"price" binding:"required,numeric"`
	Notes string `form:"notes"`
	Back  string `form:"back"`
}

// Profile 个人资料。专业按名称提交，在服务层解析成 id。
type Profile struct {
	Nickname       string `form:"nickname"`
	Grade          string `form:"grade" binding:"omitempty,oneof=1 2 3 4"`
	Major          string `form:"major"`
	Connection     string `form:"connection"`
	ConnectionType int    `form:"connection_type" binding:"omitempty,oneof=1 2 3"`
}
