package service

import (
	"context"

	"parceltrack/internal/features/tracking/display"
	"parceltrack/internal/features/tracking/domain"
	"parceltrack/internal/features/tracking/ports"
)

// mockShipper replays a canned fetch result or error.
type mockShipper struct {
	result *domain.TrackingResult
	err    error
	link   string

	fetchCalls int
	lastOpts   ports.FetchOptions
}

func (m *mockShipper) Fetch(ctx context.Context, trackingCode string, opts ports.FetchOptions) (*domain.TrackingResult, error) {
	m.fetchCalls++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	// Hand out a copy so the service's mutations do not leak into the canned
	// result across cycles.
	clone := *m.result
	clone.Events = append([]domain.Event{}, m.result.Events...)
	meta := *m.result.Metadata
	clone.Metadata = &meta
	return &clone, nil
}

func (m *mockShipper) RequiredFields() []domain.FieldSpec {
	return []domain.FieldSpec{}
}

func (m *mockShipper) ShipperLink(pkg *domain.TrackingResult) string {
	return m.link
}

// mockProvider routes every shipper id to one mock shipper. A nil shipper
// simulates an unknown id.
type mockProvider struct {
	shipper *mockShipper
}

func (m *mockProvider) Create(shipper string) ports.Shipper {
	if m.shipper == nil {
		return nil
	}
	return m.shipper
}

func (m *mockProvider) CreateDisplayHelper(pkg *domain.TrackingResult) display.Helper {
	return nil
}

// mockRepository is an in-memory PackageRepository.
type mockRepository struct {
	records map[string]*domain.TrackingResult
	saves   int
}

func newMockRepository() *mockRepository {
	return &mockRepository{records: map[string]*domain.TrackingResult{}}
}

func (m *mockRepository) key(shipper, trackingCode string) string {
	return shipper + "_" + trackingCode
}

func (m *mockRepository) Save(result *domain.TrackingResult) error {
	m.saves++
	m.records[m.key(result.Shipper, result.TrackingCode)] = result
	return nil
}

func (m *mockRepository) Load(shipper, trackingCode string) (*domain.TrackingResult, error) {
	return m.records[m.key(shipper, trackingCode)], nil
}

func (m *mockRepository) GetAll() ([]*domain.TrackingResult, error) {
	all := []*domain.TrackingResult{}
	for _, record := range m.records {
		all = append(all, record)
	}
	return all, nil
}

func (m *mockRepository) Delete(shipper, trackingCode string) (bool, error) {
	key := m.key(shipper, trackingCode)
	if _, ok := m.records[key]; !ok {
		return false, nil
	}
	delete(m.records, key)
	return true, nil
}

// mockNotifier records dispatched notifications.
type mockNotifier struct {
	titles  []string
	bodies  []string
	targets []string
	err     error
}

func (m *mockNotifier) Notify(ctx context.Context, title, body, target string) error {
	m.titles = append(m.titles, title)
	m.bodies = append(m.bodies, body)
	m.targets = append(m.targets, target)
	return m.err
}
