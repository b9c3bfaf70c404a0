package handler

import (
	"time"

	"github.com/ogurasousui/codex-company-registry/internal/core/company"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
)

// CompanyRequest は会社の登録・更新リクエストです。
// divisions を省略または null にすると既存の部門を維持し、空配列を渡すと部門を削除します。
type CompanyRequest struct {
	Code       string            `json:"code"`
	Name       string            `json:"name"`
	DirectorID string            `json:"director_id"`
	Divisions  []DivisionRequest `json:"divisions"`
}

// DivisionRequest は部門の入力です。
type DivisionRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CompanyResponse は会社の表現です。
type CompanyResponse struct {
	ID         string             `json:"id"`
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	DirectorID string             `json:"director_id"`
	Divisions  []DivisionResponse `json:"divisions"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// DivisionResponse は部門の表現です。
type DivisionResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListCompaniesResponse は会社一覧の応答です。
type ListCompaniesResponse struct {
	Companies     []CompanyResponse `json:"companies"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

// ErrorResponse はエラー応答です。
type ErrorResponse struct {
	Error   string               `json:"error"`
	Reason  string               `json:"reason,omitempty"`
	Message string               `json:"message,omitempty"`
	Fields  []FieldErrorResponse `json:"fields,omitempty"`
}

// FieldErrorResponse は項目単位の検証エラーです。
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// BulkResponse は一括登録の集計結果です。
type BulkResponse struct {
	Accepted   int                     `json:"accepted"`
	Rejected   int                     `json:"rejected"`
	Rejections []BulkRejectionResponse `json:"rejections"`
}

// BulkRejectionResponse は一括登録で拒否された要素です。
type BulkRejectionResponse struct {
	Code    string               `json:"code"`
	Reason  string               `json:"reason"`
	Message string               `json:"message"`
	Fields  []FieldErrorResponse `json:"fields,omitempty"`
}

// DeleteResponse は削除成功時の応答です。
type DeleteResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PersonRequest は人物登録リクエストです。
type PersonRequest struct {
	NationalID string `json:"national_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// PersonResponse は人物の表現です。
type PersonResponse struct {
	ID         string    `json:"id"`
	NationalID string    `json:"national_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toCompany(req CompanyRequest) company.Company {
	c := company.Company{
		Code:       req.Code,
		Name:       req.Name,
		DirectorID: req.DirectorID,
	}
	if req.Divisions != nil {
		c.Divisions = make([]company.Division, len(req.Divisions))
		for i, d := range req.Divisions {
			c.Divisions[i] = company.Division{Code: d.Code, Name: d.Name}
		}
	}
	return c
}

func toCompanies(reqs []CompanyRequest) []company.Company {
	out := make([]company.Company, len(reqs))
	for i, req := range reqs {
		out[i] = toCompany(req)
	}
	return out
}

func toCompanyResponse(c *company.Company) CompanyResponse {
	divisions := make([]DivisionResponse, 0, len(c.Divisions))
	for _, d := range c.Divisions {
		divisions = append(divisions, DivisionResponse{Code: d.Code, Name: d.Name})
	}
	return CompanyResponse{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		DirectorID: c.DirectorID,
		Divisions:  divisions,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func toFieldErrors(fields []company.FieldError) []FieldErrorResponse {
	if len(fields) == 0 {
		return nil
	}
	out := make([]FieldErrorResponse, len(fields))
	for i, f := range fields {
		out[i] = FieldErrorResponse{Field: f.Field, Message: f.Message}
	}
	return out
}

func toRejectionResponse(r *company.Rejection) ErrorResponse {
	return ErrorResponse{
		Error:   "company rejected",
		Reason:  string(r.Reason),
		Message: r.Message,
		Fields:  toFieldErrors(r.Fields),
	}
}

func toBulkResponse(report company.BulkReport) BulkResponse {
	rejections := make([]BulkRejectionResponse, 0, len(report.Rejections))
	for _, r := range report.Rejections {
		rejections = append(rejections, BulkRejectionResponse{
			Code:    r.Code,
			Reason:  string(r.Rejection.Reason),
			Message: r.Rejection.Message,
			Fields:  toFieldErrors(r.Rejection.Fields),
		})
	}
	return BulkResponse{
		Accepted:   report.Accepted,
		Rejected:   report.Rejected,
		Rejections: rejections,
	}
}

func toPersonResponse(p *person.Person) PersonResponse {
	return PersonResponse{
		ID:         p.ID,
		NationalID: p.NationalID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
