package company

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// UpsertCompanies は入力順に 1 件ずつ UpsertCompany を適用し、結果を集計します。
// 各要素は独立したトランザクションで処理され、1 件の失敗が後続の要素を止めることはありません。
func (s *Service) UpsertCompanies(ctx context.Context, in []Company) BulkReport {
	report := BulkReport{Rejections: []BulkRejection{}}

	for i, c := range in {
		code := strings.TrimSpace(c.Code)

		out, err := s.UpsertCompany(ctx, c)
		if err != nil {
			s.logger.Error("bulk upsert item failed",
				zap.Int("index", i),
				zap.String("code", code),
				zap.Error(err),
			)
			report.Rejected++
			report.Rejections = append(report.Rejections, BulkRejection{
				Code: code,
				Rejection: Rejection{
					Reason:  ReasonStoreError,
					Class:   ClassInternal,
					Message: "company could not be stored",
				},
			})
			continue
		}

		if out.Kind == OutcomeRejected {
			report.Rejected++
			report.Rejections = append(report.Rejections, BulkRejection{Code: code, Rejection: *out.Rejection})
			continue
		}

		report.Accepted++
	}

	s.logger.Info("bulk upsert finished",
		zap.Int("submitted", len(in)),
		zap.Int("accepted", report.Accepted),
		zap.Int("rejected", report.Rejected),
	)

	return report
}
