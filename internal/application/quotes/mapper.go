package quotes

import (
	"github.com/bitmx/cotizador-api/internal/application/dto"
	"github.com/bitmx/cotizador-api/internal/domain/entity"
)

func toQuoteResponse(q *entity.Quote) dto.QuoteResponse {
	resp := dto.QuoteResponse{
		ID:            q.ID,
		QuoteID:       q.QuoteID,
		CustomerID:    q.CustomerID,
		ContactID:     q.ContactID,
		UserID:        q.UserID,
		Status:        q.Status,
		PaymentTerms:  q.PaymentTerms,
		SubTotal:      q.SubTotal,
		DiscountTotal: q.DiscountTotal,
		Tax:           q.Tax,
		Total:         q.Total,
		IsActive:      q.IsActive,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
		ApprovedBy:    q.ApprovedBy,
		ApprovedAt:    q.ApprovedAt,
		SentBy:        q.SentBy,
		SentAt:        q.SentAt,
		WonBy:         q.WonBy,
		WonAt:         q.WonAt,
		LostBy:        q.LostBy,
		LostAt:        q.LostAt,
		LostReason:    q.LostReason,
	}
	if q.ValidUntil != nil {
		resp.ValidUntil = q.ValidUntil.Format("2006-01-02")
	}
	return resp
}

func toLineResponse(l *entity.QuoteLine) dto.QuoteLineResponse {
	return dto.QuoteLineResponse{
		ID:            l.ID,
		ProductID:     l.ProductID,
		Description:   l.Description,
		Quantity:      l.Quantity,
		UnitPrice:     l.UnitPrice,
		Discount:      l.Discount,
		DeliveryTime:  l.DeliveryTime,
		GrossTotal:    l.GrossTotal(),
		DiscountValue: l.DiscountValue(),
		NetTotal:      l.NetTotal(),
	}
}

// toDetailResponse arma la cabecera con secciones (en su orden de creación) y
// las líneas de cada una, más los comentarios ya ordenados del más reciente al
// más antiguo.
func toDetailResponse(q *entity.Quote, sections []*entity.QuoteSection, lines []*entity.QuoteLine, comments []*entity.QuoteComment) *dto.QuoteDetailResponse {
	detail := &dto.QuoteDetailResponse{
		QuoteResponse: toQuoteResponse(q),
		Sections:      make([]dto.QuoteSectionResponse, 0, len(sections)),
		Comments:      make([]dto.QuoteCommentResponse, 0, len(comments)),
	}
	bySection := make(map[string][]dto.QuoteLineResponse)
	for _, l := range lines {
		if l.SectionID == nil {
			continue
		}
		bySection[*l.SectionID] = append(bySection[*l.SectionID], toLineResponse(l))
	}
	for _, s := range sections {
		detail.Sections = append(detail.Sections, dto.QuoteSectionResponse{
			ID:          s.ID,
			Name:        s.Name,
			ProductType: s.ProductType,
			SubTotal:    s.SubTotal,
			Lines:       bySection[s.ID],
		})
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, dto.QuoteCommentResponse{
			ID:        c.ID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		})
	}
	return detail
}
