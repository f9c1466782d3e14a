package model

// Book 书籍基础信息，按 ISBN 归一，由后端书目库提供，客户端只读。
type Book struct {
	ID         int64   `json:"ID"`
	Name       string  `json:"book_name"`
	ISBN       string  `json:"isbn"`
	Author     string  `json:"author"`
	Press      string  `json:"press"`
	PressDate  string  `json:"press_date"`
	PressPlace string  `json:"press_place"`
	Price      float64 `json:"price"`
	Pictures   string  `json:"pictures"`
	CLCCode    string  `json:"clc_code"`
	Desc       string  `json:"book_desc"`
}
