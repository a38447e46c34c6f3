// Package redis connects to Redis and provides Redis-backed stores for the
// session and application attribute tiers.
//
// # Connecting
//
//	cfg := redis.Config{
//		ConnectionURL:  "redis://localhost:6379/0",
//		RetryAttempts:  3,
//		RetryInterval:  5 * time.Second,
//		ConnectTimeout: 30 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("Failed to connect to Redis:", err)
//	}
//	defer client.Close()
//
// Connect validates the URL (redis:// or rediss://), then pings with
// exponential backoff until the server answers, RetryAttempts is exhausted or
// ConnectTimeout expires. Healthcheck returns a ping function suitable for
// readiness probes.
//
// # Stores
//
// SessionStore implements session.Store. Each session is written as a CBOR
// record under "<prefix>session:data:<id>" with a token index under
// "<prefix>session:token:<token>". Both keys expire with the session, so
// DeleteExpired usually finds nothing to do.
//
//	sessions := session.NewManager(redis.NewSessionStore(client, redis.FromConfig(cfg)...))
//
// AttributeStore implements scope.Store over one Redis hash. Passed to the
// container as its application store, it lets several instances share the
// application tier:
//
//	app := redis.NewAttributeStore(client, "application", redis.FromConfig(cfg)...)
//	c, err := container.New(root, container.WithApplicationStore(app))
//
// Values are CBOR encoded. Integers come back as int64 and maps as
// map[string]any.
//
// # Error Handling
//
//   - ErrFailedToParseRedisConnString: the connection URL is malformed
//   - ErrRedisNotReady: Redis did not answer within the retry budget
//   - ErrEmptyConnectionURL: no connection URL was given
//   - ErrHealthcheckFailed: the health ping failed
//   - ErrEncode, ErrDecode: a stored value could not be converted
package redis
