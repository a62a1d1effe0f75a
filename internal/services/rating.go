package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/soundstore/soundstore/internal/auth"
	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/uow"
)

type AddRatingRequest struct {
	ProductID   int64   `json:"productId"`
	RatingPoint int     `json:"ratingPoint"`
	Comment     *string `json:"comment"`
}

// ProductRating aggregates the reviews of one product.
type ProductRating struct {
	Average  decimal.Decimal `json:"average"`
	Comments []string        `json:"comments"`
}

// RatingService accepts and aggregates product reviews. Only buyers of
// a product may rate it.
type RatingService struct {
	db  *builder.DB
	log *logrus.Logger
}

func NewRatingService(db *builder.DB, log *logrus.Logger) *RatingService {
	return &RatingService{db: db, log: log}
}

// AddRating records a review for the calling user, identified by the
// sid claim carried in ctx.
func (s *RatingService) AddRating(ctx context.Context, req AddRatingRequest) error {
	userID := auth.GetClaim(ctx, auth.ClaimSid)
	if userID == "" {
		return logFail(s.log, "add rating",
			fault.Unauthorized("no user identity in request"))
	}

	if req.RatingPoint < 1 || req.RatingPoint > 5 {
		return logFail(s.log, "add rating",
			fault.Invalid("rating point %d is out of range", req.RatingPoint))
	}

	productExists, err := builder.Select[models.Product](s.db).
		Where(builder.Eq("id", req.ProductID)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "add rating", err)
	}
	if !productExists {
		return logFail(s.log, "add rating",
			fault.NotFound("product %d was not found", req.ProductID))
	}

	purchased, err := s.hasPurchased(ctx, userID, req.ProductID)
	if err != nil {
		return logFail(s.log, "add rating", err)
	}
	if !purchased {
		return logFail(s.log, "add rating",
			fault.Conflict("user has not purchased product %d", req.ProductID))
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.Rating](u)
	if err != nil {
		return logFail(s.log, "add rating", err)
	}
	repo.Add(models.Rating{
		RatingPoint: req.RatingPoint,
		Comment:     req.Comment,
		ProductID:   req.ProductID,
		UserID:      userID,
	})

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "add rating", err)
	}
	return nil
}

// GetRatingOfAProduct returns the mean rating point and all comments of
// a product's reviews.
func (s *RatingService) GetRatingOfAProduct(ctx context.Context, productID int64) (*ProductRating, error) {
	ratings, err := builder.Select[models.Rating](s.db).
		Where(builder.Eq("product_id", productID)).
		OrderByAsc("id").
		All(ctx)
	if err != nil {
		return nil, logFail(s.log, "get product rating", err)
	}
	if len(ratings) == 0 {
		return nil, logFail(s.log, "get product rating",
			fault.NotFound("product %d has no ratings", productID))
	}

	sum := decimal.Zero
	comments := make([]string, 0, len(ratings))
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r.RatingPoint)))
		if r.Comment != nil {
			comments = append(comments, *r.Comment)
		}
	}

	return &ProductRating{
		Average:  sum.Div(decimal.NewFromInt(int64(len(ratings)))),
		Comments: comments,
	}, nil
}

// hasPurchased reports whether any of the user's orders contains a line
// for the product.
func (s *RatingService) hasPurchased(ctx context.Context, userID string, productID int64) (bool, error) {
	orders, err := builder.Select[models.Order](s.db).
		Where(builder.Eq("user_id", userID)).
		All(ctx)
	if err != nil {
		return false, err
	}
	if len(orders) == 0 {
		return false, nil
	}

	orderIDs := make([]any, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	return builder.Select[models.OrderDetail](s.db).
		Where(builder.Eq("product_id", productID)).
		Where(builder.In("order_id", orderIDs...)).
		Exists(ctx)
}
