// Package parsing provides the application-level service around the SMILES
// parser core: input limits, result caching, persistence, and event
// publication.  HTTP handlers and CLI commands talk to this package rather
// than to the parser directly.
package parsing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/turtacn/MolParse/internal/domain/smiles"
	"github.com/turtacn/MolParse/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MolParse/internal/infrastructure/database/redis"
	"github.com/turtacn/MolParse/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolParse/pkg/errors"
	"github.com/turtacn/MolParse/pkg/types/chem"
	"github.com/turtacn/MolParse/pkg/types/common"
)

// Service is the application surface for parsing and molecule storage.
type Service interface {
	// Parse validates and parses a SMILES string.  A rejected input is not a
	// service failure: the response carries a structured ParseErrorDTO and the
	// returned error is nil.  The error return is reserved for infrastructure
	// problems (storage, limits).
	Parse(ctx context.Context, req *chem.ParseRequest) (*chem.ParseResponse, error)

	GetMolecule(ctx context.Context, id string) (*chem.MoleculeDTO, error)
	ListMolecules(ctx context.Context, page common.PageRequest) (*common.PageResponse[chem.MoleculeDTO], error)
	DeleteMolecule(ctx context.Context, id string) error
}

// Repository is the narrow persistence surface the service needs.
// *repositories.MoleculeRepository satisfies it.
type Repository interface {
	Save(ctx context.Context, rec *repositories.MoleculeRecord) error
	FindByID(ctx context.Context, id common.ID) (*repositories.MoleculeRecord, error)
	List(ctx context.Context, page common.PageRequest) ([]*repositories.MoleculeRecord, int64, error)
	Delete(ctx context.Context, id common.ID) error
}

// EventPublisher is the narrow broker surface the service needs.
// *kafka.Producer satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, msg *kafka.ProducerMessage) error
}

// Config tunes the service.
type Config struct {
	// MaxInputLength bounds accepted SMILES strings in bytes.
	MaxInputLength int

	// CacheTTL is the lifetime of cached parse results; 0 keeps entries
	// until evicted.
	CacheTTL time.Duration

	// EventSource tags published events, e.g. "molparse-api".
	EventSource string
}

type service struct {
	repo      Repository
	cache     redis.Cache
	publisher EventPublisher
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	cfg       Config
}

// NewService assembles the parse pipeline.  repo, cache, publisher, and
// metrics may each be nil; the corresponding concern is skipped, which keeps
// the CLI usable without any backing services.
func NewService(repo Repository, cache redis.Cache, publisher EventPublisher,
	metrics *prometheus.AppMetrics, logger logging.Logger, cfg Config) Service {
	if cfg.MaxInputLength == 0 {
		cfg.MaxInputLength = 10000
	}
	if cfg.EventSource == "" {
		cfg.EventSource = "molparse"
	}
	return &service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *service) Parse(ctx context.Context, req *chem.ParseRequest) (*chem.ParseResponse, error) {
	if req == nil || req.SMILES == "" {
		return s.rejected(ctx, "", &smiles.ParseError{
			Kind:    smiles.KindSyntax,
			Code:    errors.ErrCodeSmilesEmptyInput,
			Column:  0,
			Message: "empty SMILES input",
		}, time.Now()), nil
	}
	if len(req.SMILES) > s.cfg.MaxInputLength {
		return nil, errors.New(errors.ErrCodeValidation, "SMILES input exceeds maximum length")
	}

	start := time.Now()
	key := cacheKey(req.SMILES)

	if s.cache != nil {
		var cached chem.MoleculeGraphDTO
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			s.countCache("hit")
			s.observeParse("ok", start)
			if req.Persist {
				s.persist(ctx, &cached)
			}
			return &chem.ParseResponse{Graph: &cached, Cached: true}, nil
		case errors.IsNotFound(err):
			s.countCache("miss")
		default:
			s.countCache("error")
			s.logger.Warn("parse cache lookup failed", logging.Err(err))
		}
	}

	mol, perr := smiles.Parse(req.SMILES)
	if perr != nil {
		return s.rejected(ctx, req.SMILES, perr, start), nil
	}

	dto := mol.ToDTO()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dto, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("parse cache fill failed", logging.Err(err))
		}
	}
	if req.Persist {
		s.persist(ctx, dto)
	}

	s.countParseOutcome("ok")
	s.observeParse("ok", start)
	s.publishParsed(ctx, dto, req.Persist)

	return &chem.ParseResponse{Graph: dto}, nil
}

// rejected records metrics and events for a parse failure and builds the
// structured error response.
func (s *service) rejected(ctx context.Context, input string, perr *smiles.ParseError, start time.Time) *chem.ParseResponse {
	kind := string(perr.Kind)
	s.countParseOutcome(kind)
	s.observeParse(kind, start)
	if s.metrics != nil {
		s.metrics.ParseErrors.WithLabelValues(string(perr.Code)).Inc()
	}

	s.logger.Debug("SMILES rejected",
		logging.String("kind", kind),
		logging.String("code", string(perr.Code)),
		logging.Int("column", perr.Column))

	s.publishRejected(ctx, input, perr)

	return &chem.ParseResponse{Error: &chem.ParseErrorDTO{
		Kind:    kind,
		Code:    string(perr.Code),
		Column:  perr.Column,
		Message: perr.Message,
	}}
}

// persist stores the parsed graph, deduplicated by SMILES hash at the
// storage layer.  Persistence failures are logged and surfaced through
// metrics but do not fail the parse.
func (s *service) persist(ctx context.Context, dto *chem.MoleculeGraphDTO) {
	if s.repo == nil {
		return
	}
	now := time.Now().UTC()
	rec := &repositories.MoleculeRecord{
		ID:               common.NewID(),
		SMILES:           dto.SMILES,
		SMILESHash:       smilesHash(dto.SMILES),
		MolecularFormula: dto.MolecularFormula,
		MolecularWeight:  dto.MolecularWeight,
		AtomCount:        len(dto.Atoms),
		BondCount:        len(dto.Bonds),
		Graph:            dto,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		s.countPersist("error")
		s.logger.Error("molecule persist failed",
			logging.String("smiles", dto.SMILES),
			logging.Err(err))
		return
	}
	s.countPersist("ok")
}

func (s *service) GetMolecule(ctx context.Context, id string) (*chem.MoleculeDTO, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeNotImplemented, "molecule storage is not configured")
	}
	mid := common.ID(id)
	if err := mid.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid molecule id")
	}
	rec, err := s.repo.FindByID(ctx, mid)
	if err != nil {
		return nil, err
	}
	return recordToDTO(rec), nil
}

func (s *service) ListMolecules(ctx context.Context, page common.PageRequest) (*common.PageResponse[chem.MoleculeDTO], error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeNotImplemented, "molecule storage is not configured")
	}
	records, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	items := make([]chem.MoleculeDTO, len(records))
	for i, rec := range records {
		items[i] = *recordToDTO(rec)
	}
	resp := common.NewPageResponse(items, total, page)
	return &resp, nil
}

func (s *service) DeleteMolecule(ctx context.Context, id string) error {
	if s.repo == nil {
		return errors.New(errors.ErrCodeNotImplemented, "molecule storage is not configured")
	}
	mid := common.ID(id)
	if err := mid.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid molecule id")
	}
	if err := s.repo.Delete(ctx, mid); err != nil {
		return err
	}
	s.publishDeleted(ctx, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Events
// ─────────────────────────────────────────────────────────────────────────────

func (s *service) publishParsed(ctx context.Context, dto *chem.MoleculeGraphDTO, persisted bool) {
	s.publishEvent(ctx, kafka.TopicMoleculeParsed, kafka.MoleculeParsedPayload{
		SMILES:    dto.SMILES,
		Formula:   dto.MolecularFormula,
		Weight:    dto.MolecularWeight,
		AtomCount: len(dto.Atoms),
		BondCount: len(dto.Bonds),
		Persisted: persisted,
		ParsedAt:  time.Now().UTC(),
	})
}

func (s *service) publishRejected(ctx context.Context, input string, perr *smiles.ParseError) {
	s.publishEvent(ctx, kafka.TopicMoleculeRejected, kafka.MoleculeRejectedPayload{
		SMILES:     input,
		ErrorKind:  string(perr.Kind),
		ErrorCode:  string(perr.Code),
		Column:     perr.Column,
		Message:    perr.Message,
		RejectedAt: time.Now().UTC(),
	})
}

func (s *service) publishDeleted(ctx context.Context, id string) {
	s.publishEvent(ctx, kafka.TopicMoleculeDeleted, kafka.MoleculeDeletedPayload{
		MoleculeID: id,
		DeletedAt:  time.Now().UTC(),
	})
}

func (s *service) publishEvent(ctx context.Context, topic string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	env, err := kafka.NewEventEnvelope(topic, s.cfg.EventSource, payload)
	if err != nil {
		s.logger.Error("event envelope build failed", logging.Err(err))
		return
	}
	msg, err := env.ToMessage(topic)
	if err != nil {
		s.logger.Error("event message build failed", logging.Err(err))
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.countEvent(topic, "error")
		s.logger.Error("event publish failed",
			logging.String("topic", topic),
			logging.Err(err))
		return
	}
	s.countEvent(topic, "ok")
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func smilesHash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func cacheKey(input string) string {
	return "smiles:" + smilesHash(input)
}

func recordToDTO(rec *repositories.MoleculeRecord) *chem.MoleculeDTO {
	dto := &chem.MoleculeDTO{
		SMILES:           rec.SMILES,
		MolecularFormula: rec.MolecularFormula,
		MolecularWeight:  rec.MolecularWeight,
		AtomCount:        rec.AtomCount,
		BondCount:        rec.BondCount,
	}
	dto.ID = rec.ID
	dto.CreatedAt = rec.CreatedAt
	dto.UpdatedAt = rec.UpdatedAt
	if rec.Graph != nil {
		dto.Graph = *rec.Graph
	}
	return dto
}

func (s *service) countParseOutcome(outcome string) {
	if s.metrics != nil {
		s.metrics.ParsesTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *service) observeParse(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ParseDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}
}

func (s *service) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CacheEvents.WithLabelValues(result).Inc()
	}
}

func (s *service) countPersist(status string) {
	if s.metrics != nil {
		s.metrics.MoleculesPersisted.WithLabelValues(status).Inc()
	}
}

func (s *service) countEvent(topic, outcome string) {
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(topic, outcome).Inc()
	}
}
