package guess

import "sync"

// PlayerRegistry is a concurrent unique-name map of live players. It
// also tracks, per player, the identity of the game that player
// currently occupies.
type PlayerRegistry struct {
	mu      sync.Mutex
	entries map[string]*playerEntry
}

type playerEntry struct {
	player *Player
	game   string
}

// NewPlayerRegistry returns an empty player registry.
func NewPlayerRegistry() *PlayerRegistry {
	return &PlayerRegistry{
		entries: make(map[string]*playerEntry),
	}
}

// Register binds name to p. Registration is a compare-and-insert: if the
// name is already bound to a live player, it fails with ErrNameTaken.
func (r *PlayerRegistry) Register(name string, p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[name]; ok {
		return ErrNameTaken
	}

	r.entries[name] = &playerEntry{player: p}

	return nil
}

// Lookup returns the player bound to name.
func (r *PlayerRegistry) Lookup(name string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	return entry.player, nil
}

// Unregister removes name. Removing an absent name is a no-op.
func (r *PlayerRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// SetGame records the game the player currently occupies.
func (r *PlayerRegistry) SetGame(name, game string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return ErrPlayerNotFound
	}

	entry.game = game

	return nil
}

// CurrentGame returns the identity of the player's current game, or an
// empty string if the player is in no game.
func (r *PlayerRegistry) CurrentGame(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return "", ErrPlayerNotFound
	}

	return entry.game, nil
}

// List returns a snapshot of all registered player names. Order is not
// significant.
func (r *PlayerRegistry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	return names
}

// Clear unregisters every player.
func (r *PlayerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]*playerEntry)
}

// GameRegistry is a concurrent unique-key map of live games, keyed by
// the host's name. It remembers creation order so the most recently
// created live game can be found.
type GameRegistry struct {
	mu      sync.Mutex
	games   map[string]*Game
	created []string
}

// NewGameRegistry returns an empty game registry.
func NewGameRegistry() *GameRegistry {
	return &GameRegistry{
		games: make(map[string]*Game),
	}
}

// Register binds id to g, failing with ErrNameTaken if id is already
// bound to a live game.
func (r *GameRegistry) Register(id string, g *Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[id]; ok {
		return ErrNameTaken
	}

	r.games[id] = g
	r.created = append(r.created, id)

	return nil
}

// Lookup returns the game bound to id.
func (r *GameRegistry) Lookup(id string) (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	return g, nil
}

// Latest returns the most recently created game that is still registered.
func (r *GameRegistry) Latest() (*Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.created) - 1; i >= 0; i-- {
		if g, ok := r.games[r.created[i]]; ok {
			return g, nil
		}
	}

	return nil, ErrGameNotFound
}

// Unregister removes id. Removing an absent id is a no-op.
func (r *GameRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.games, id)
}

// List returns a snapshot of all registered game identities.
func (r *GameRegistry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}

	return ids
}

// Clear unregisters every game.
func (r *GameRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games = make(map[string]*Game)
	r.created = nil
}
