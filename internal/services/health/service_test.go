package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	payload, ok := NewService(nil).Status(context.Background())
	if !ok || payload["database"] != "memory" {
		t.Fatalf("unexpected status %v %v", payload, ok)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	svc := NewService(db)

	mock.ExpectPing()
	if payload, ok := svc.Status(context.Background()); !ok || payload["database"] != "up" {
		t.Fatalf("unexpected status %v %v", payload, ok)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	if payload, ok := svc.Status(context.Background()); ok || payload["database"] != "down" {
		t.Fatalf("unexpected status %v %v", payload, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
