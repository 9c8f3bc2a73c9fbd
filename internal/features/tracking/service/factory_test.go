package service

import (
	"testing"

	"parceltrack/internal/core/config"
	"parceltrack/internal/features/tracking/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(ship24Key string) *ShipperFactory {
	cfg := &config.AppConfig{
		Ship24: config.Ship24Config{APIKey: ship24Key},
		Gofo:   config.GofoConfig{FetcherBin: "./gofofetch"},
	}
	return NewShipperFactory(cfg, nil, nil, nil)
}

// TestShipperFactory_Create verifies adapter construction per shipper id and
// the nil contract for unknown ids.
func TestShipperFactory_Create(t *testing.T) {
	factory := newTestFactory("key")

	for _, id := range []string{
		domain.ShipperDHL,
		domain.ShipperPostNL,
		domain.ShipperShip24,
		domain.ShipperYunExpress,
		domain.ShipperGofoExpress,
	} {
		assert.NotNil(t, factory.Create(id), id)
	}
	assert.Nil(t, factory.Create("UPS"))
	assert.Nil(t, factory.Create(""))
}

// TestShipperFactory_Ship24Gating verifies Ship24 is only offered with an
// API key.
func TestShipperFactory_Ship24Gating(t *testing.T) {
	withoutKey := newTestFactory("")
	assert.Nil(t, withoutKey.Create(domain.ShipperShip24))

	shippers := withoutKey.AvailableShippers()
	require.Len(t, shippers, 4)
	for _, info := range shippers {
		assert.NotEqual(t, domain.ShipperShip24, info.ID)
	}

	withKey := newTestFactory("key")
	assert.NotNil(t, withKey.Create(domain.ShipperShip24))
	assert.Len(t, withKey.AvailableShippers(), 5)
}

// TestShipperFactory_AvailableShippers_Fields verifies the field descriptors
// surface per shipper.
func TestShipperFactory_AvailableShippers_Fields(t *testing.T) {
	factory := newTestFactory("")
	shippers := factory.AvailableShippers()

	byID := map[string]ShipperInfo{}
	for _, info := range shippers {
		byID[info.ID] = info
	}

	require.Contains(t, byID, domain.ShipperDHL)
	require.Len(t, byID[domain.ShipperDHL].Fields, 1)
	assert.Equal(t, "postalCode", byID[domain.ShipperDHL].Fields[0].ID)

	require.Contains(t, byID, domain.ShipperPostNL)
	assert.Len(t, byID[domain.ShipperPostNL].Fields, 2)

	assert.Empty(t, byID[domain.ShipperYunExpress].Fields)
	assert.Empty(t, byID[domain.ShipperGofoExpress].Fields)
}

// TestShipperFactory_CreateDisplayHelper verifies helper dispatch by the
// package's shipper.
func TestShipperFactory_CreateDisplayHelper(t *testing.T) {
	factory := newTestFactory("key")

	for _, id := range []string{
		domain.ShipperDHL,
		domain.ShipperPostNL,
		domain.ShipperShip24,
		domain.ShipperYunExpress,
		domain.ShipperGofoExpress,
	} {
		pkg := domain.NewTrackingResult("CODE", id, "Onderweg")
		pkg.RawResponse = "{}"
		assert.NotNil(t, factory.CreateDisplayHelper(pkg), id)
	}

	unknown := domain.NewTrackingResult("CODE", "UPS", "Onderweg")
	assert.Nil(t, factory.CreateDisplayHelper(unknown))
}
