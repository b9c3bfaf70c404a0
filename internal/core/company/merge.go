package company

import "strings"

// Merge は existing に incoming の指定済み項目を重ねた新しい会社を返します。
// ID・Code・CreatedAt・UpdatedAt は incoming から取り込みません。引数は変更しません。
func Merge(existing, incoming Company) Company {
	merged := Company{
		ID:         existing.ID,
		Code:       existing.Code,
		Name:       existing.Name,
		DirectorID: existing.DirectorID,
		Divisions:  cloneDivisions(existing.Divisions),
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  existing.UpdatedAt,
	}

	if name := strings.TrimSpace(incoming.Name); name != "" {
		merged.Name = name
	}
	if director := strings.TrimSpace(incoming.DirectorID); director != "" {
		merged.DirectorID = director
	}
	// 部門は要素単位では突き合わせず、指定された場合に丸ごと置き換えます。
	if incoming.Divisions != nil {
		merged.Divisions = cloneDivisions(incoming.Divisions)
	}

	return merged
}

// Normalize は文字列項目の前後空白を除去した会社を返します。
func Normalize(c Company) Company {
	out := Company{
		ID:         c.ID,
		Code:       strings.TrimSpace(c.Code),
		Name:       strings.TrimSpace(c.Name),
		DirectorID: strings.TrimSpace(c.DirectorID),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.Divisions != nil {
		out.Divisions = make([]Division, len(c.Divisions))
		for i, d := range c.Divisions {
			out.Divisions[i] = Division{
				Code: strings.TrimSpace(d.Code),
				Name: strings.TrimSpace(d.Name),
			}
		}
	}
	return out
}
