package services

import "fmt"

// Roster state for one event lives in three Redis keys: two sorted
// sets scored by join timestamp (first come, first served) and a small
// state hash carrying the derived full flag. Every mutation below is a
// single Lua script, so the membership check, the capacity check and
// the write happen in one atomic step, so there is no window where two
// concurrent registrations can both pass a stale check.

func activeKey(eventID string) string {
	return fmt.Sprintf("roster:active:%s", eventID)
}

func waitlistKey(eventID string) string {
	return fmt.Sprintf("roster:waitlist:%s", eventID)
}

func stateKey(eventID string) string {
	return fmt.Sprintf("roster:state:%s", eventID)
}

// rosterKeys returns the script KEYS for one event, in the fixed order
// every script expects: active, waitlist, state.
func rosterKeys(eventID string) []string {
	return []string{activeKey(eventID), waitlistKey(eventID), stateKey(eventID)}
}

// admitScript places a new registration. ARGV: player id, capacity,
// join timestamp (ms). Replies {verdict, full} where verdict is one of
// already/active/waitlist.
const admitScript = `
if redis.call('ZSCORE', KEYS[1], ARGV[1]) or redis.call('ZSCORE', KEYS[2], ARGV[1]) then
  return {'already', redis.call('HGET', KEYS[3], 'full') or '0'}
end
local active = redis.call('ZCARD', KEYS[1])
local capacity = tonumber(ARGV[2])
if active < capacity then
  redis.call('ZADD', KEYS[1], ARGV[3], ARGV[1])
  local full = '0'
  if active + 1 >= capacity then full = '1' end
  redis.call('HSET', KEYS[3], 'full', full)
  return {'active', full}
end
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
redis.call('HSET', KEYS[3], 'full', '1')
return {'waitlist', '1'}
`

// promoteScript moves a waitlisted player onto the active roster,
// re-checking capacity at execution time. ARGV: player id, capacity,
// join timestamp (ms). Verdicts: absent/full/promoted. On 'full' the
// lists are left untouched and the player stays waitlisted.
const promoteScript = `
if not redis.call('ZSCORE', KEYS[2], ARGV[1]) then
  return {'absent', redis.call('HGET', KEYS[3], 'full') or '0'}
end
local active = redis.call('ZCARD', KEYS[1])
local capacity = tonumber(ARGV[2])
if active >= capacity then
  redis.call('HSET', KEYS[3], 'full', '1')
  return {'full', '1'}
end
redis.call('ZREM', KEYS[2], ARGV[1])
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[1])
local full = '0'
if active + 1 >= capacity then full = '1' end
redis.call('HSET', KEYS[3], 'full', full)
return {'promoted', full}
`

// demoteScript moves an active player onto the waitlist. The waitlist
// has no ceiling, so the move is unguarded. ARGV: player id, capacity,
// join timestamp (ms). Verdicts: absent/demoted.
const demoteScript = `
if not redis.call('ZSCORE', KEYS[1], ARGV[1]) then
  return {'absent', redis.call('HGET', KEYS[3], 'full') or '0'}
end
redis.call('ZREM', KEYS[1], ARGV[1])
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[1])
local full = '0'
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then full = '1' end
redis.call('HSET', KEYS[3], 'full', full)
return {'demoted', full}
`

// removeScript deletes a player from whichever list holds them.
// Absent from both counts as success. ARGV: player id, capacity.
// Verdict is always 'removed'.
const removeScript = `
local removed = redis.call('ZREM', KEYS[1], ARGV[1])
if removed == 0 then
  redis.call('ZREM', KEYS[2], ARGV[1])
end
local full = '0'
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then full = '1' end
redis.call('HSET', KEYS[3], 'full', full)
return {'removed', full}
`
