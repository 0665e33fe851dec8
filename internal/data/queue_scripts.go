package data

import "github.com/redis/go-redis/v9"

// Lua scripts keep each broker state change atomic. Key layout under the
// queue prefix: id, wait, active, delayed, completed, failed, stalled,
// stalled-check, job:<id>, lock:<id>.

// addJobScript allocates an id, stores the job hash and pushes it on the wait list.
//
// KEYS: id counter, wait list. ARGV: prefix, name, data, opts, timestamp.
var addJobScript = redis.NewScript(`
local id = redis.call('INCR', KEYS[1])
local jobKey = ARGV[1] .. 'job:' .. id
redis.call('HSET', jobKey,
  'name', ARGV[2], 'data', ARGV[3], 'opts', ARGV[4],
  'timestamp', ARGV[5], 'attemptsMade', 0, 'stalledCounter', 0)
redis.call('LPUSH', KEYS[2], id)
return tostring(id)
`)

// claimJobScript locks a job that was just moved to the active list.
// Returns nil when the job hash no longer exists.
//
// KEYS: lock, job hash. ARGV: token, lock ms, now ms.
var claimJobScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 0 then
  return nil
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
redis.call('HSET', KEYS[2], 'processedOn', ARGV[3])
return redis.call('HGETALL', KEYS[2])
`)

// extendLockScript renews a held lock and clears the job from the stalled snapshot.
//
// KEYS: lock, stalled set. ARGV: token, lock ms, job id.
var extendLockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  redis.call('SREM', KEYS[2], ARGV[3])
  return 1
end
return 0
`)

// completeJobScript moves an owned job from active to completed.
//
// KEYS: lock, active, completed, job hash, stalled set. ARGV: token, job id, now ms.
var completeJobScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
  return -1
end
redis.call('DEL', KEYS[1])
redis.call('LREM', KEYS[2], 0, ARGV[2])
redis.call('SREM', KEYS[5], ARGV[2])
redis.call('ZADD', KEYS[3], ARGV[3], ARGV[2])
redis.call('HINCRBY', KEYS[4], 'attemptsMade', 1)
redis.call('HSET', KEYS[4], 'finishedOn', ARGV[3])
return 1
`)

// failJobScript records a failed attempt. While attempts remain the job goes
// to the delayed set (or straight back to wait without a backoff); otherwise
// it is moved to failed. Returns {retried, attemptsMade} or {-1, 0} when the
// lock is not owned.
//
// KEYS: lock, active, delayed, failed, job hash, stalled set, wait.
// ARGV: token, job id, now ms, reason, max attempts, delay ms.
var failJobScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
  return {-1, 0}
end
redis.call('DEL', KEYS[1])
redis.call('LREM', KEYS[2], 0, ARGV[2])
redis.call('SREM', KEYS[6], ARGV[2])
local made = redis.call('HINCRBY', KEYS[5], 'attemptsMade', 1)
redis.call('HSET', KEYS[5], 'failedReason', ARGV[4])
if made < tonumber(ARGV[5]) then
  local delay = tonumber(ARGV[6])
  if delay > 0 then
    redis.call('ZADD', KEYS[3], tonumber(ARGV[3]) + delay, ARGV[2])
  else
    redis.call('LPUSH', KEYS[7], ARGV[2])
  end
  return {1, made}
end
redis.call('ZADD', KEYS[4], ARGV[3], ARGV[2])
redis.call('HSET', KEYS[5], 'finishedOn', ARGV[3])
return {0, made}
`)

// promoteDelayedScript moves due delayed jobs to the wait list.
//
// KEYS: delayed, wait. ARGV: now ms, limit.
var promoteDelayedScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, id in ipairs(ids) do
  redis.call('ZREM', KEYS[1], id)
  redis.call('LPUSH', KEYS[2], id)
end
return #ids
`)

// recoverStalledScript implements two-phase stalled detection. Jobs that were
// active at the previous check and still hold no lock are requeued, or failed
// once their stalled counter exceeds the limit. The snapshot is then rebuilt
// from the active list. The stalled-check key throttles concurrent checkers.
//
// KEYS: stalled set, active, wait, failed, stalled-check.
// ARGV: prefix, max stalled count, now ms, check interval ms, failed reason.
var recoverStalledScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[5]) == 1 then
  return {{}, {}}
end
redis.call('SET', KEYS[5], ARGV[3], 'PX', ARGV[4])

local requeued = {}
local failed = {}
local stalling = redis.call('SMEMBERS', KEYS[1])
for _, id in ipairs(stalling) do
  if redis.call('EXISTS', ARGV[1] .. 'lock:' .. id) == 0 then
    local removed = redis.call('LREM', KEYS[2], 1, id)
    if removed > 0 then
      local jobKey = ARGV[1] .. 'job:' .. id
      local count = redis.call('HINCRBY', jobKey, 'stalledCounter', 1)
      if count > tonumber(ARGV[2]) then
        redis.call('ZADD', KEYS[4], ARGV[3], id)
        redis.call('HSET', jobKey, 'failedReason', ARGV[5], 'finishedOn', ARGV[3])
        table.insert(failed, id)
      else
        redis.call('RPUSH', KEYS[3], id)
        table.insert(requeued, id)
      end
    end
  end
end
redis.call('DEL', KEYS[1])

local active = redis.call('LRANGE', KEYS[2], 0, -1)
for i = 1, #active, 5000 do
  redis.call('SADD', KEYS[1], unpack(active, i, math.min(i + 4999, #active)))
end
return {requeued, failed}
`)

// trimFinishedScript deletes up to limit finished jobs older than the cutoff.
//
// KEYS: completed or failed set. ARGV: prefix, cutoff ms, limit.
var trimFinishedScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[2], 'LIMIT', 0, ARGV[3])
for _, id in ipairs(ids) do
  redis.call('DEL', ARGV[1] .. 'job:' .. id)
  redis.call('ZREM', KEYS[1], id)
end
return #ids
`)
