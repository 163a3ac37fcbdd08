package guess

import "errors"

var (
	// ErrPlayerNotFound indicates the named player is not registered.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrNameTaken indicates a registration attempt with an in-use name.
	ErrNameTaken = errors.New("name already taken")

	// ErrGameNotFound indicates the player has no current game, or no
	// game exists to join.
	ErrGameNotFound = errors.New("game not found")

	// ErrNotHost indicates a host-only action was attempted by another player.
	ErrNotHost = errors.New("player is not the host")

	// ErrPlayerInGame indicates the player is already on the game's roster.
	ErrPlayerInGame = errors.New("player is already in the game")

	// ErrInvalidAction indicates the game's current state does not permit
	// the attempted action.
	ErrInvalidAction = errors.New("action not valid in current game state")

	// ErrWrongTurn indicates a play by a player who is not the current actor.
	ErrWrongTurn = errors.New("not this player's turn")

	// ErrOutOfRange indicates a guess or option outside the configured range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnavailable indicates a registered entity could no longer be
	// reached. It is distinct from the domain errors above so callers can
	// tell infrastructure failure apart from an invalid move.
	ErrUnavailable = errors.New("entity unavailable")
)
