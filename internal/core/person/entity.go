package person

import "time"

// Person は取締役として参照される人物エンティティです。NationalID が業務キーです。
type Person struct {
	ID         string
	NationalID string
	FirstName  string
	LastName   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
