// Package analysis provides the application service around the feasibility
// engine. Transports call it instead of the engine so that every analysis is
// measured and announced the same way.
package analysis

import (
	"context"
	"math"
	"time"

	"github.com/turtacn/H2Siting/internal/application/events"
	"github.com/turtacn/H2Siting/internal/domain/feasibility"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// Transport labels where an analysis request came from.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
	TransportCLI  = "cli"
)

// Service defines the feasibility operations exposed to transports.
type Service interface {
	Analyze(ctx context.Context, input *AnalyzeInput) (*feasibility.Result, error)
	Hubs(ctx context.Context, state string) []feasibility.Hub
	Nearest(ctx context.Context, lat, lon float64) (*NearestHub, error)
	Policies(ctx context.Context, state string) []string
	States(ctx context.Context) []string
}

// AnalyzeInput carries an analysis request. Nil coordinates are rejected.
type AnalyzeInput struct {
	Latitude  *float64
	Longitude *float64
	Transport string
}

// NearestHub is a resolved hub and its planar distance in degrees.
type NearestHub struct {
	Hub      feasibility.Hub `json:"hub"`
	Distance float64         `json:"distance"`
}

// Recorder receives analysis measurements.
type Recorder interface {
	RecordAnalysis(transport, recommendation, state string, feasibility int, duration time.Duration)
	RecordEvent(eventType string, err error)
}

type serviceImpl struct {
	engine    *feasibility.Engine
	publisher events.Publisher
	metrics   Recorder
	logger    logging.Logger
}

// NewService creates a new analysis service. A nil publisher discards events
// and a nil recorder disables measurements.
func NewService(engine *feasibility.Engine, publisher events.Publisher, metrics Recorder, logger logging.Logger) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &serviceImpl{
		engine:    engine,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// ErrCoordinatesRequired is returned when either coordinate is missing.
var ErrCoordinatesRequired = errors.New(errors.ErrCodeCoordinateMissing, "Latitude and longitude are required.")

// ErrCoordinatesOutOfRange is returned when a coordinate lies off the globe.
var ErrCoordinatesOutOfRange = errors.New(errors.ErrCodeCoordinateRange,
	"Latitude must be within [-90, 90] and longitude within [-180, 180].")

func validCoordinate(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func checkCoordinates(lat, lon *float64) error {
	if !validCoordinate(lat) || !validCoordinate(lon) {
		return ErrCoordinatesRequired
	}
	if math.Abs(*lat) > 90 || math.Abs(*lon) > 180 {
		return ErrCoordinatesOutOfRange
	}
	return nil
}

func (s *serviceImpl) Analyze(ctx context.Context, input *AnalyzeInput) (*feasibility.Result, error) {
	if input == nil {
		return nil, ErrCoordinatesRequired
	}
	if err := checkCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	transport := input.Transport
	if transport == "" {
		transport = TransportHTTP
	}

	start := time.Now()
	res := s.engine.Analyze(*input.Latitude, *input.Longitude)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(transport, res.Recommendation.Name, res.State, res.FeasibilityScore, time.Since(start))
	}

	s.logger.Debug("location analysed",
		logging.Float64("lat", res.Location.Lat),
		logging.Float64("lng", res.Location.Lng),
		logging.String("hub", res.Hub),
		logging.Int("feasibility", res.FeasibilityScore),
		logging.String("recommendation", res.Recommendation.Name))

	evt := events.NewFeasibilityAnalyzedEvent(res.Location.Lat, res.Location.Lng, res.Hub, res.State,
		res.FeasibilityScore, res.Recommendation.Name, transport)
	err := s.publisher.PublishEvent(ctx, evt)
	if err != nil {
		s.logger.Warn("failed to publish analysis event", logging.String("hub", res.Hub), logging.Err(err))
	}
	if s.metrics != nil {
		s.metrics.RecordEvent(evt.EventType(), err)
	}
	return &res, nil
}

func (s *serviceImpl) Hubs(ctx context.Context, state string) []feasibility.Hub {
	if state == "" {
		return s.engine.Catalog().Hubs()
	}
	return s.engine.Catalog().HubsInState(state)
}

func (s *serviceImpl) Nearest(ctx context.Context, lat, lon float64) (*NearestHub, error) {
	if err := checkCoordinates(&lat, &lon); err != nil {
		return nil, err
	}
	hub, dist := s.engine.Catalog().Nearest(lat, lon)
	return &NearestHub{Hub: hub, Distance: dist}, nil
}

func (s *serviceImpl) Policies(ctx context.Context, state string) []string {
	return s.engine.Catalog().Policies().For(state)
}

func (s *serviceImpl) States(ctx context.Context) []string {
	return s.engine.Catalog().Policies().States()
}

//Personal.AI order the ending
