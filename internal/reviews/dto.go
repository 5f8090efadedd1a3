package reviews

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput is a review submitted by the order owner.
type CreateInput struct {
	UserID      uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	Rating      int
	Comment     string
	IsAnonymous bool
}

// ReviewDTO is the public representation of a review.
type ReviewDTO struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"productId"`
	OrderID      uuid.UUID  `json:"orderId"`
	UserID       *uuid.UUID `json:"userId,omitempty"`
	ReviewerName string     `json:"reviewerName"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment"`
	IsAnonymous  bool       `json:"isAnonymous"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ReviewListDTO is one page of a product's reviews.
type ReviewListDTO struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor string      `json:"nextCursor,omitempty"`
}

// ProductRatingDTO is a product's rating aggregate after a write.
type ProductRatingDTO struct {
	ProductID     uuid.UUID       `json:"productId"`
	AverageRating decimal.Decimal `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
}

// CreateResult carries the stored review and the refreshed product stats.
type CreateResult struct {
	Review  ReviewDTO        `json:"review"`
	Product ProductRatingDTO `json:"product"`
}

func mapReviewToDTO(r models.Review, name string) ReviewDTO {
	dto := ReviewDTO{
		ID:           r.ID,
		ProductID:    r.ProductID,
		OrderID:      r.OrderID,
		ReviewerName: name,
		Rating:       r.Rating,
		Comment:      r.Comment,
		IsAnonymous:  r.IsAnonymous,
		CreatedAt:    r.CreatedAt,
	}
	if r.IsAnonymous {
		dto.ReviewerName = maskName(name)
	} else {
		userID := r.UserID
		dto.UserID = &userID
	}
	return dto
}

// maskName keeps the first and last letter of a name: "Carla" becomes "C***a".
func maskName(name string) string {
	name = strings.TrimSpace(name)
	switch utf8.RuneCountInString(name) {
	case 0:
		return "Anonymous"
	case 1, 2:
		first, _ := utf8.DecodeRuneInString(name)
		return string(first) + "***"
	}
	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)
	return string(first) + "***" + string(last)
}

func averageOf(stats RatingStats) decimal.Decimal {
	if stats.Count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(stats.Sum).Div(decimal.NewFromInt(stats.Count)).Round(1)
}
