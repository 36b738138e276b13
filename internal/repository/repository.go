package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/callumw/snagshare/internal/apperr"
	"github.com/callumw/snagshare/internal/domain"
	"github.com/callumw/snagshare/internal/graph"
)

// Repository encapsulates graph persistence for homeowners, snags and shares.
type Repository struct {
	client graph.Client
	newID  func() string
	nowFn  func() time.Time
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{
		client: client,
		newID:  uuid.NewString,
		nowFn:  time.Now,
	}
}

// CreateShare persists a submitted share with status pending and returns the
// stored record. The data is assumed to be validated by the caller.
func (r *Repository) CreateShare(ctx context.Context, userID string, data domain.ShareData) (domain.ShareRecord, error) {
	if userID == "" {
		return domain.ShareRecord{}, errors.New("user id is required")
	}

	now := r.nowFn().UTC()
	record := domain.ShareRecord{
		ShareID:     r.newID(),
		OwnerUserID: userID,
		Data:        data,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	params := map[string]any{
		"userId":  userID,
		"shareId": record.ShareID,
		"props":   shareProperties(record),
	}

	if _, err := r.client.ExecuteWrite(ctx, createShareCypher, params); err != nil {
		return domain.ShareRecord{}, fmt.Errorf("create share for %s: %w", userID, err)
	}
	return record, nil
}

// GetShare loads a share record by its opaque identifier.
func (r *Repository) GetShare(ctx context.Context, shareID string) (domain.ShareRecord, error) {
	if shareID == "" {
		return domain.ShareRecord{}, apperr.ErrNotFound
	}

	res, err := r.client.ExecuteRead(ctx, getShareCypher, map[string]any{
		"shareId": shareID,
	})
	if err != nil {
		return domain.ShareRecord{}, fmt.Errorf("get share %s: %w", shareID, err)
	}
	if len(res.Records) == 0 {
		return domain.ShareRecord{}, fmt.Errorf("share %s: %w", shareID, apperr.ErrNotFound)
	}

	return recordToShare(res.Records[0]), nil
}

// SetShareStatus applies a forward-only status transition. Re-applying the
// current status is a no-op; a backward move fails with ErrInvalidTransition.
// The transition is a single conditional statement, so the store's per-record
// atomicity is the only serialization point: concurrent calls for the same
// share cannot interleave into a backward move.
func (r *Repository) SetShareStatus(ctx context.Context, shareID string, status domain.ShareStatus) error {
	params := map[string]any{
		"shareId":   shareID,
		"status":    string(status),
		"rank":      status.Rank(),
		"updatedAt": formatTime(r.nowFn().UTC()),
	}

	res, err := r.client.ExecuteWrite(ctx, setShareStatusCypher, params)
	if err != nil {
		return fmt.Errorf("set share %s status: %w", shareID, err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("share %s: %w", shareID, apperr.ErrNotFound)
	}

	current := toString(res.Records[0]["current"])
	if current != string(status) {
		previous := toString(res.Records[0]["previous"])
		return fmt.Errorf("share %s is %s, cannot move to %s: %w",
			shareID, previous, status, apperr.ErrInvalidTransition)
	}
	return nil
}

// AddSnag records a build defect against the homeowner's aggregate.
func (r *Repository) AddSnag(ctx context.Context, userID string, snag domain.Snag) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	snagID := snag.SnagID
	if snagID == "" {
		snagID = r.newID()
	}
	createdAt := snag.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.nowFn().UTC()
	}

	params := map[string]any{
		"userId": userID,
		"snagId": snagID,
		"props": map[string]any{
			"title":       snag.Title,
			"location":    snag.Location,
			"description": snag.Description,
			"createdAt":   formatTime(createdAt),
		},
	}

	if _, err := r.client.ExecuteWrite(ctx, addSnagCypher, params); err != nil {
		return fmt.Errorf("add snag for %s: %w", userID, err)
	}
	return nil
}

// CountSnags returns how many snags the homeowner has recorded. An unknown
// user has an empty aggregate, so the count is zero rather than an error.
func (r *Repository) CountSnags(ctx context.Context, userID string) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countSnagsCypher, map[string]any{
		"userId": userID,
	})
	if err != nil {
		return 0, fmt.Errorf("count snags for %s: %w", userID, err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	return toInt64(res.Records[0]["total"]), nil
}

// CurrentShareID returns the homeowner's most recent share identifier, or
// empty when no share is linked.
func (r *Repository) CurrentShareID(ctx context.Context, userID string) (string, error) {
	res, err := r.client.ExecuteRead(ctx, currentShareCypher, map[string]any{
		"userId": userID,
	})
	if err != nil {
		return "", fmt.Errorf("current share for %s: %w", userID, err)
	}
	if len(res.Records) == 0 {
		return "", nil
	}
	return toString(res.Records[0]["shareId"]), nil
}

// ResetProgress discards the homeowner's snags and share linkage in a single
// statement, so the store's transaction either applies the whole teardown or
// rolls it back. A dispatched write whose outcome the driver could not
// observe is reported as partially applied; everything else rolled back.
func (r *Repository) ResetProgress(ctx context.Context, userID string) (domain.ResetOutcome, error) {
	res, err := r.client.ExecuteWrite(ctx, resetProgressCypher, map[string]any{
		"userId": userID,
	})
	if err != nil {
		return domain.ResetOutcome{}, &apperr.ResetError{
			Partial: errors.Is(err, graph.ErrOutcomeUnknown),
			Err:     err,
		}
	}

	// No record means the homeowner node does not exist: an already-empty
	// aggregate, which resets to itself.
	if len(res.Records) == 0 {
		return domain.ResetOutcome{}, nil
	}

	return domain.ResetOutcome{
		SnagsCleared:  toInt64(res.Records[0]["snagsCleared"]),
		SharesCleared: toInt64(res.Records[0]["sharesCleared"]),
	}, nil
}

func shareProperties(rec domain.ShareRecord) map[string]any {
	return map[string]any{
		"fullName":        rec.Data.FullName,
		"address":         rec.Data.Address,
		"addressLine1":    rec.Data.AddressDetails.Line1,
		"addressLine2":    rec.Data.AddressDetails.Line2,
		"addressTown":     rec.Data.AddressDetails.Town,
		"addressCounty":   rec.Data.AddressDetails.County,
		"addressPostcode": rec.Data.AddressDetails.Postcode,
		"builderType":     string(rec.Data.BuilderType),
		"builderName":     rec.Data.BuilderName,
		"builderEmail":    rec.Data.BuilderEmail,
		"status":          string(rec.Status),
		"statusRank":      rec.Status.Rank(),
		"createdAt":       formatTime(rec.CreatedAt),
		"updatedAt":       formatTime(rec.UpdatedAt),
	}
}

func recordToShare(record graph.Record) domain.ShareRecord {
	rec := domain.ShareRecord{
		ShareID:     toString(record["shareId"]),
		OwnerUserID: toString(record["userId"]),
		Status:      domain.ShareStatus(toString(record["status"])),
		Data: domain.ShareData{
			FullName: toString(record["fullName"]),
			Address:  toString(record["address"]),
			AddressDetails: domain.AddressDetails{
				Line1:    toString(record["addressLine1"]),
				Line2:    toString(record["addressLine2"]),
				Town:     toString(record["addressTown"]),
				County:   toString(record["addressCounty"]),
				Postcode: toString(record["addressPostcode"]),
			},
			BuilderType:  domain.BuilderType(toString(record["builderType"])),
			BuilderName:  toString(record["builderName"]),
			BuilderEmail: toString(record["builderEmail"]),
		},
	}
	if ts := toTimePtr(record["createdAt"]); ts != nil {
		rec.CreatedAt = *ts
	}
	if ts := toTimePtr(record["updatedAt"]); ts != nil {
		rec.UpdatedAt = *ts
	}
	return rec
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func toTimePtr(val any) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return &parsed
		}
	}
	return nil
}

const createShareCypher = `
MERGE (h:Homeowner {userId: $userId})
CREATE (s:Share {shareId: $shareId})
SET s += $props
MERGE (h)-[:SHARED]->(s)
RETURN s.shareId AS shareId
`

const getShareCypher = `
MATCH (h:Homeowner)-[:SHARED]->(s:Share {shareId: $shareId})
RETURN h.userId AS userId,
       s.shareId AS shareId,
       s.fullName AS fullName,
       s.address AS address,
       s.addressLine1 AS addressLine1,
       s.addressLine2 AS addressLine2,
       s.addressTown AS addressTown,
       s.addressCounty AS addressCounty,
       s.addressPostcode AS addressPostcode,
       s.builderType AS builderType,
       s.builderName AS builderName,
       s.builderEmail AS builderEmail,
       s.status AS status,
       s.createdAt AS createdAt,
       s.updatedAt AS updatedAt
`

const setShareStatusCypher = `
MATCH (s:Share {shareId: $shareId})
WITH s, s.status AS previous, s.statusRank AS previousRank
SET s.status = CASE WHEN $rank >= previousRank THEN $status ELSE s.status END,
    s.statusRank = CASE WHEN $rank >= previousRank THEN $rank ELSE previousRank END,
    s.updatedAt = CASE WHEN $rank >= previousRank THEN $updatedAt ELSE s.updatedAt END
RETURN previous, s.status AS current
`

const addSnagCypher = `
MERGE (h:Homeowner {userId: $userId})
CREATE (n:Snag {snagId: $snagId})
SET n += $props
MERGE (h)-[:REPORTED]->(n)
RETURN n.snagId AS snagId
`

const countSnagsCypher = `
MATCH (h:Homeowner {userId: $userId})
OPTIONAL MATCH (h)-[:REPORTED]->(n:Snag)
RETURN count(n) AS total
`

const currentShareCypher = `
MATCH (h:Homeowner {userId: $userId})-[:SHARED]->(s:Share)
RETURN s.shareId AS shareId
ORDER BY datetime(s.createdAt) DESC
LIMIT 1
`

const resetProgressCypher = `
MATCH (h:Homeowner {userId: $userId})
OPTIONAL MATCH (h)-[:REPORTED]->(n:Snag)
WITH h, collect(DISTINCT n) AS snags
OPTIONAL MATCH (h)-[:SHARED]->(s:Share)
WITH h, snags, collect(DISTINCT s) AS shares
FOREACH (n IN snags | DETACH DELETE n)
FOREACH (s IN shares | DETACH DELETE s)
RETURN size(snags) AS snagsCleared, size(shares) AS sharesCleared
`
