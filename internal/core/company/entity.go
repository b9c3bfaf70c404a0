package company

import "time"

// Company は会社エンティティです。Code が業務キーで、ID はストアが採番します。
type Company struct {
	ID         string
	Code       string
	Name       string
	DirectorID string
	// Divisions が nil の場合は「未指定」を意味し、空スライスとは区別されます。
	Divisions []Division
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Division は会社に所属する部門です。並び順は保存時の位置で保持されます。
type Division struct {
	Code string
	Name string
}

// HasDirector は取締役が設定されているかを返します。
func (c Company) HasDirector() bool {
	return c.DirectorID != ""
}

func cloneDivisions(divisions []Division) []Division {
	if divisions == nil {
		return nil
	}
	out := make([]Division, len(divisions))
	copy(out, divisions)
	return out
}
