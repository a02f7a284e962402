package usecase

import (
	"context"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// プロフィール画面のための集約（本人情報・出品中の商品・購入履歴）
type ProfileUsecase struct {
	users    repo.UserRepository
	itemRepo repo.ItemRepository
	tx       repo.TransactionManager
}

func NewProfileUsecase(users repo.UserRepository, itemRepo repo.ItemRepository, tx repo.TransactionManager) *ProfileUsecase {
	return &ProfileUsecase{
		users:    users,
		itemRepo: itemRepo,
		tx:       tx,
	}
}

type ProfileOutput struct {
	User         UserDTO       `json:"user"`
	ItemsForSale []model.Item  `json:"items_for_sale"`
	Orders       []OrderOutput `json:"orders"`
}

func (u *ProfileUsecase) GetProfile(ctx context.Context, userID int64) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err == repo.ErrNotFound {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	itemsForSale, err := u.itemRepo.ListBySellerID(ctx, userID)
	if err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//購入履歴（割引の内訳つき）
	var orders []OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		shipped, err := r.Orders().ListShippedByBuyerID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orders = make([]OrderOutput, 0, len(shipped))
		for _, o := range shipped {
			lines, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			orders = append(orders, toOrderOutput(o, lines))
		}
		return nil
	})
	if err != nil {
		return ProfileOutput{}, err
	}

	return ProfileOutput{
		User:         toUserDTO(user),
		ItemsForSale: itemsForSale,
		Orders:       orders,
	}, nil
}
