package company

import "fmt"

// OutcomeKind はユースケースの結果種別です。
type OutcomeKind string

const (
	OutcomeCreated  OutcomeKind = "created"
	OutcomeUpdated  OutcomeKind = "updated"
	OutcomeFound    OutcomeKind = "found"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeNotFound OutcomeKind = "not_found"
	OutcomeDeleted  OutcomeKind = "deleted"
)

// Reason は拒否理由です。
type Reason string

const (
	ReasonDirectorNotFound        Reason = "director_not_found"
	ReasonDirectorAlreadyAssigned Reason = "director_already_assigned"
	ReasonSchemaInvalid           Reason = "schema_invalid"
	ReasonCodeConflict            Reason = "code_conflict"
	ReasonStoreError              Reason = "store_error"
)

// RejectionClass は拒否の分類です。トランスポート層がステータスコードへ変換します。
type RejectionClass string

const (
	ClassBadRequest RejectionClass = "bad_request"
	ClassConflict   RejectionClass = "conflict"
	ClassInternal   RejectionClass = "internal"
)

// FieldError はスキーマ検証で見つかった項目単位のエラーです。
type FieldError struct {
	Field   string
	Message string
}

// Rejection は会社が書き込まれなかった理由を表します。
type Rejection struct {
	Reason  Reason
	Class   RejectionClass
	Message string
	Fields  []FieldError
}

func (r *Rejection) String() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

// Outcome はユースケースのタグ付き結果です。Kind に応じて Company か Rejection が設定されます。
type Outcome struct {
	Kind      OutcomeKind
	Company   *Company
	Rejection *Rejection
}

// BulkRejection は一括処理で拒否された要素を、送信されたコードで識別します。
type BulkRejection struct {
	Code      string
	Rejection Rejection
}

// BulkReport は一括処理の集計結果です。
type BulkReport struct {
	Accepted   int
	Rejected   int
	Rejections []BulkRejection
}

func rejected(r *Rejection) Outcome {
	return Outcome{Kind: OutcomeRejected, Rejection: r}
}

func directorNotFound(directorID string) *Rejection {
	return &Rejection{
		Reason:  ReasonDirectorNotFound,
		Class:   ClassBadRequest,
		Message: fmt.Sprintf("person %q does not exist", directorID),
	}
}

func directorAlreadyAssigned(directorID, holder string) *Rejection {
	msg := fmt.Sprintf("person %q is already director of another company", directorID)
	if holder != "" {
		msg = fmt.Sprintf("person %q is already director of company %q", directorID, holder)
	}
	return &Rejection{
		Reason:  ReasonDirectorAlreadyAssigned,
		Class:   ClassConflict,
		Message: msg,
	}
}

func codeConflict(code string) *Rejection {
	return &Rejection{
		Reason:  ReasonCodeConflict,
		Class:   ClassConflict,
		Message: fmt.Sprintf("company %q already exists", code),
	}
}

func schemaInvalid(fields []FieldError) *Rejection {
	return &Rejection{
		Reason:  ReasonSchemaInvalid,
		Class:   ClassBadRequest,
		Message: "company failed schema validation",
		Fields:  fields,
	}
}
