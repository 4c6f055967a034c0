package entities

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the entities feature around client.
func NewFeature(client *Client, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(client, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "entities"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
