package model

// 顧客。パスワードはbcryptハッシュのみ保持
type Customer struct {
	CustomerID   int64  `gorm:"column:customer_id;primaryKey;autoIncrement" json:"customer_id"`
	FirstName    string `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     string `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	UserName     string `gorm:"column:user_name;type:varchar(100);not null;uniqueIndex" json:"user_name"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
}

func (Customer) TableName() string { return "customers" }

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
