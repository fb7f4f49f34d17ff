package audit

import (
	"context"
	"errors"
	"testing"

	"spinlink/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, ClientIPFromContext)
	ctx := WithClientIP(context.Background(), "192.168.1.1")

	logger.LogEvent(ctx, "tenant-1", "ep-1", "create", "show", `{"show_id":"s1"}`)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.TenantID != "tenant-1" {
		t.Errorf("tenant_id = %q, want %q", entry.TenantID, "tenant-1")
	}
	if entry.Actor != "ep-1" {
		t.Errorf("actor = %q, want %q", entry.Actor, "ep-1")
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Error("id and created_at must be populated")
	}
}

func TestLogger_LogEvent_SentinelTenant(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.LogEvent(context.Background(), "", "", "login_failure", "identity", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].TenantID != SentinelTenantID {
		t.Errorf("tenant_id = %q, want sentinel %q", repo.entries[0].TenantID, SentinelTenantID)
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want unknown without extractor", repo.entries[0].IP)
	}
}

func TestLogger_LogEvent_RepoErrorIsSwallowed(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	logger := NewLogger(repo, nil)

	// Must not panic or surface the error.
	logger.LogEvent(context.Background(), "tenant-1", "ep-1", "create", "show", "")
}
