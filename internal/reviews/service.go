package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/kitchenline-backend/internal/orders"
	product "github.com/angelmondragon/kitchenline-backend/internal/products"
	"github.com/angelmondragon/kitchenline-backend/pkg/db"
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/kitchenline-backend/pkg/errors"
	"github.com/angelmondragon/kitchenline-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxCommentLength  = 1000
	uniqueReviewIndex = "reviews_user_order_key"
)

// Service creates reviews and keeps product rating stats in step with them.
type Service interface {
	CreateReview(ctx context.Context, input CreateInput) (*CreateResult, error)
	ListProductReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewListDTO, error)
	RecomputeProductStats(ctx context.Context, productID uuid.UUID) (*ProductRatingDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reviewerDirectory interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
}

type service struct {
	repo     Repository
	orders   orders.Repository
	products product.ProductRepository
	users    reviewerDirectory
	tx       txRunner
}

// NewService wires the review service.
func NewService(repo Repository, orderRepo orders.Repository, products product.ProductRepository, users reviewerDirectory, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, orders: orderRepo, products: products, users: users, tx: tx}, nil
}

// CreateReview stores the review, recomputes the product's stats and marks
// the order reviewed in a single transaction.
func (s *service) CreateReview(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if err := validateCreate(&input); err != nil {
		return nil, err
	}

	var (
		review models.Review
		rating *ProductRatingDTO
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		orderRepo := s.orders.WithTx(tx)

		order, err := orderRepo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "you can only review your own orders")
		}
		if order.Status != enums.OrderStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "only completed orders can be reviewed").
				WithDetails(map[string]any{"status": order.Status.String()})
		}
		if !containsProduct(order, input.ProductID) {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "product is not part of this order").
				WithDetails(map[string]any{"productId": input.ProductID.String()})
		}

		exists, err := repo.ExistsForUserOrder(ctx, input.UserID, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing review")
		}
		if exists {
			return duplicateReview()
		}

		review = models.Review{
			UserID:      input.UserID,
			OrderID:     input.OrderID,
			ProductID:   input.ProductID,
			Rating:      input.Rating,
			Comment:     input.Comment,
			IsAnonymous: input.IsAnonymous,
		}
		if err := repo.Create(ctx, &review); err != nil {
			if db.IsUniqueViolation(err, uniqueReviewIndex) {
				return duplicateReview()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
		}

		rating, err = s.recompute(ctx, tx, input.ProductID)
		if err != nil {
			return err
		}

		if err := orderRepo.Update(ctx, order.ID, map[string]any{"is_reviewed": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flag order reviewed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	name, err := s.reviewerNames(ctx, []models.Review{review})
	if err != nil {
		return nil, err
	}
	return &CreateResult{Review: mapReviewToDTO(review, name[review.UserID]), Product: *rating}, nil
}

func (s *service) ListProductReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewListDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rows, next, err := s.repo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	names, err := s.reviewerNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	out := &ReviewListDTO{Reviews: make([]ReviewDTO, 0, len(rows)), NextCursor: next}
	for _, r := range rows {
		out.Reviews = append(out.Reviews, mapReviewToDTO(r, names[r.UserID]))
	}
	return out, nil
}

// RecomputeProductStats rebuilds a product's average and count from its
// review rows.
func (s *service) RecomputeProductStats(ctx context.Context, productID uuid.UUID) (*ProductRatingDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var rating *ProductRatingDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		rating, err = s.recompute(ctx, tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *service) recompute(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (*ProductRatingDTO, error) {
	stats, err := s.repo.WithTx(tx).Stats(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate ratings")
	}
	average := averageOf(stats)
	if err := s.products.WithTx(tx).UpdateRatingStats(ctx, productID, average, int(stats.Count)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product rating")
	}
	return &ProductRatingDTO{ProductID: productID, AverageRating: average, ReviewCount: int(stats.Count)}, nil
}

func (s *service) reviewerNames(ctx context.Context, rows []models.Review) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	seen := map[uuid.UUID]struct{}{}
	for _, r := range rows {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reviewers")
	}
	names := make(map[uuid.UUID]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}
	return names, nil
}

func validateCreate(input *CreateInput) error {
	switch {
	case input.UserID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	case input.OrderID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	case input.ProductID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	case input.Rating < 1 || input.Rating > 5:
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	input.Comment = strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(input.Comment) > maxCommentLength {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "comment must be at most %d characters", maxCommentLength)
	}
	return nil
}

func containsProduct(order *models.Order, productID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func duplicateReview() error {
	return pkgerrors.New(pkgerrors.CodeBusinessRule, "you have already reviewed this order")
}

