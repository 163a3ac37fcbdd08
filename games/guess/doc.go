// Package guess implements the guessing game engine.
//
// Each round every player in a game is secretly assigned a number drawn
// from the configured guess range. Players then take turns guessing, in
// the order they joined. A guess earns 100 minus its distance from the
// player's assigned number, plus bonuses:
//
//   - guessing the assigned number exactly is worth 50
//   - guessing its digits in reverse order is worth 25
//   - guessing another player's assigned number is worth 25 per match
//
// The first player whose total reaches the configured point limit ends
// the game. The host creates the game, and only the host may start,
// configure, or restart it.
//
// Games and players are looked up by name through a pair of registries
// held by a Server, which exposes the player-facing verbs. Every game
// and player guards its own state, so concurrent callers are serialized
// per entity.
package guess
