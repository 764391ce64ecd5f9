package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dlshad/drawerledger/internal/domain"
)

// ShiftRegistry implements usecase.ShiftRegistry in Redis so that every
// server instance sees the same operator-to-drawer assignments. Two keys are
// kept per assignment: operator -> drawer for lookup, drawer -> operator to
// keep a drawer from being claimed twice.
type ShiftRegistry struct {
	client *redis.Client
}

// NewShiftRegistry creates a new ShiftRegistry.
func NewShiftRegistry(client *redis.Client) *ShiftRegistry {
	return &ShiftRegistry{client: client}
}

const (
	operatorKeyPrefix = "shift:operator:"
	drawerKeyPrefix   = "shift:drawer:"
)

// openScript claims the drawer for the operator, releasing any drawer the
// operator previously held. It fails when another operator holds the drawer.
var openScript = redis.NewScript(`
local holder = redis.call("GET", KEYS[2])
if holder and holder ~= ARGV[1] then
	return 0
end
local previous = redis.call("GET", KEYS[1])
if previous and previous ~= ARGV[2] then
	redis.call("DEL", "shift:drawer:" .. previous)
end
redis.call("SET", KEYS[1], ARGV[2])
redis.call("SET", KEYS[2], ARGV[1])
return 1
`)

// Open assigns the drawer to the operator for the current shift.
func (r *ShiftRegistry) Open(ctx context.Context, operatorID, drawerID string) error {
	ok, err := openScript.Run(ctx, r.client,
		[]string{operatorKeyPrefix + operatorID, drawerKeyPrefix + drawerID},
		operatorID, drawerID,
	).Int()
	if err != nil {
		return err
	}

	if ok == 0 {
		return domain.ErrDrawerOccupied
	}

	return nil
}

var releaseScript = redis.NewScript(`
local drawer = redis.call("GET", KEYS[1])
if drawer then
	redis.call("DEL", "shift:drawer:" .. drawer)
end
redis.call("DEL", KEYS[1])
return 1
`)

// Release clears the operator's assignment. Releasing with no open drawer is
// a no-op.
func (r *ShiftRegistry) Release(ctx context.Context, operatorID string) error {
	return releaseScript.Run(ctx, r.client, []string{operatorKeyPrefix + operatorID}).Err()
}

// ActiveDrawer returns the operator's open drawer id.
func (r *ShiftRegistry) ActiveDrawer(ctx context.Context, operatorID string) (string, error) {
	drawerID, err := r.client.Get(ctx, operatorKeyPrefix+operatorID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNoActiveDrawer
		}

		return "", err
	}

	return drawerID, nil
}
