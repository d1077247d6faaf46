package db

import (
	"path/filepath"
	"testing"
)

// setupTestDB поднимает чистую БД в памяти для теста
func setupTestDB(t *testing.T) {
	t.Helper()
	InitDB(":memory:")
}

func TestInitDBIdempotent(t *testing.T) {
	// Миграции только добавляют, повторный запуск на том же файле безопасен
	path := filepath.Join(t.TempDir(), "test.db")
	InitDB(path)
	if _, err := CreateOrder(OrderTypeMixing, 1, "user", "test", ""); err != nil {
		t.Fatalf("CreateOrder после первой инициализации: %v", err)
	}
	InitDB(path)
	order := GetOrderByUser(1, OrderTypeMixing)
	if order == nil {
		t.Fatal("Заказ пропал после повторной инициализации")
	}
}
