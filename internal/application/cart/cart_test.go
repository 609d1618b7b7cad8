package cart

import (
	"context"
	"testing"

	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/domain/user"
	apperrors "github.com/is216/bookweb/pkg/errors"
)

// fakeBookRepo 内存图书仓储(测试用)
type fakeBookRepo struct {
	books map[uint]*book.Book
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.books[b.ID] = b
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (r *fakeBookRepo) FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error) {
	var result []*book.Book
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error { return nil }
func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error      { return nil }

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) DecrementStockForSale(ctx context.Context, id uint, quantity int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	if b.Stock < quantity {
		return book.NewInsufficientStock(id)
	}
	b.Stock -= quantity
	b.SoldQty += quantity
	return nil
}

func (r *fakeBookRepo) RestoreStockForSale(ctx context.Context, id uint, quantity int) error {
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Stock += quantity
	b.SoldQty -= quantity
	return nil
}

// fakeCartRepo 内存购物车仓储(测试用)
type fakeCartRepo struct {
	carts map[string][]user.CartItem
}

func (r *fakeCartRepo) GetCart(ctx context.Context, username string) ([]user.CartItem, error) {
	return r.carts[username], nil
}

func (r *fakeCartRepo) ReplaceCart(ctx context.Context, username string, items []user.CartItem) error {
	r.carts[username] = items
	return nil
}

func (r *fakeCartRepo) ClearCart(ctx context.Context, username string) error {
	delete(r.carts, username)
	return nil
}

func newTestUseCase() (*UseCase, *fakeBookRepo, *fakeCartRepo) {
	bookRepo := &fakeBookRepo{books: map[uint]*book.Book{
		1: {ID: 1, Title: "Go语言实战", CoverURL: "/covers/1.jpg", Price: 5000, SalePrice: 4500, Stock: 10},
		2: {ID: 2, Title: "数据库系统概念", CoverURL: "/covers/2.jpg", Price: 8000, Stock: 2},
	}}
	cartRepo := &fakeCartRepo{carts: make(map[string][]user.CartItem)}
	return NewUseCase(cartRepo, bookRepo), bookRepo, cartRepo
}

func TestSetCart_SnapshotRefresh(t *testing.T) {
	uc, _, _ := newTestUseCase()

	resp, err := uc.SetCart(context.Background(), "alice", []SetCartItem{
		{BookID: 1, Quantity: 2},
		{BookID: 2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("写入购物车不应失败: %v", err)
	}

	if len(resp.Items) != 2 {
		t.Fatalf("购物车应有2行,实际%d行", len(resp.Items))
	}
	// 快照使用当前图书数据,促销价优先
	if resp.Items[0].Title != "Go语言实战" {
		t.Errorf("标题快照错误: %s", resp.Items[0].Title)
	}
	if resp.Items[0].Price != 4500 {
		t.Errorf("单价快照应取促销价4500,实际%d", resp.Items[0].Price)
	}
	if resp.Items[1].Price != 8000 {
		t.Errorf("无促销时单价快照应取原价8000,实际%d", resp.Items[1].Price)
	}
	if resp.Total != 4500*2+8000 {
		t.Errorf("合计错误: %d", resp.Total)
	}
}

func TestSetCart_InsufficientStock(t *testing.T) {
	uc, _, cartRepo := newTestUseCase()

	// 第二行库存不足(库存2,要3),整体拒绝
	_, err := uc.SetCart(context.Background(), "alice", []SetCartItem{
		{BookID: 1, Quantity: 1},
		{BookID: 2, Quantity: 3},
	})
	if !book.IsInsufficientStock(err) {
		t.Fatalf("应返回库存不足错误,实际: %v", err)
	}
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Message != "图书[2]库存不足" {
		t.Errorf("错误信息应包含图书ID: %v", err)
	}
	// 整体拒绝,购物车未被修改
	if len(cartRepo.carts["alice"]) != 0 {
		t.Error("校验失败时购物车不应被修改")
	}
}

func TestSetCart_BookNotFound(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.SetCart(context.Background(), "alice", []SetCartItem{
		{BookID: 999, Quantity: 1},
	})
	if !apperrors.HasCode(err, apperrors.ErrCodeBookNotFound) {
		t.Fatalf("应返回图书不存在错误,实际: %v", err)
	}
}

func TestSetCart_InvalidQuantity(t *testing.T) {
	uc, _, _ := newTestUseCase()

	_, err := uc.SetCart(context.Background(), "alice", []SetCartItem{
		{BookID: 1, Quantity: 0},
	})
	if err == nil {
		t.Fatal("数量为0应被拒绝")
	}
}

func TestSetCart_EmptyReplacesAll(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()

	if _, err := uc.SetCart(ctx, "alice", []SetCartItem{{BookID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("写入购物车不应失败: %v", err)
	}
	// 提交空购物车即清空
	resp, err := uc.SetCart(ctx, "alice", nil)
	if err != nil {
		t.Fatalf("清空购物车不应失败: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("购物车应为空,实际%d行", len(resp.Items))
	}
}

func TestGetCart_PreservesOrder(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()

	if _, err := uc.SetCart(ctx, "alice", []SetCartItem{
		{BookID: 2, Quantity: 1},
		{BookID: 1, Quantity: 2},
	}); err != nil {
		t.Fatalf("写入购物车不应失败: %v", err)
	}

	resp, err := uc.GetCart(ctx, "alice")
	if err != nil {
		t.Fatalf("查询购物车不应失败: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("购物车应有2行,实际%d行", len(resp.Items))
	}
	if resp.Items[0].BookID != 2 || resp.Items[1].BookID != 1 {
		t.Errorf("购物车应保持提交顺序: %+v", resp.Items)
	}
}
