// Package session persists HTTP session state into an external document
// store so sessions survive restarts and can be shared by several server
// instances.
//
// # Architecture
//
// An Interceptor wraps every request. It puts a single-slot Cache and a
// session handle into the request context, runs the handler and, once the
// handler returns (or panics), saves the session that was touched or removes
// it if it was invalidated. There is no write-through: attribute changes
// reach the store only at the end of the request.
//
//	┌────────────┐  id   ┌─────────────┐
//	│ Transport  │ ────► │ Interceptor │ ── Save / Remove ──┐
//	└────────────┘       └─────────────┘                    ▼
//	                            │ Get              ┌───────────────┐
//	                            ▼                  │     Store     │ ◄── Sweeper
//	                     ┌─────────────┐  Load     │ Codec+Registry│
//	                     │    Cache    │ ◄──────── └───────────────┘
//	                     └─────────────┘                   │
//	                                                       ▼
//	                                       Collection (mongo, redis, postgres, memory)
//
// Each session is one document {_id, data, lastmodified}. data is the Codec
// blob (creation time plus tagged attributes), lastmodified is stamped on
// every save and is all the Sweeper looks at.
//
// # Usage
//
//	db, _ := mongo.NewWithDatabase(ctx, mongoCfg)
//	store := session.NewStore(session.NewMongoCollection(db, "sessions"))
//	_ = store.Init(ctx)
//	go session.NewSweeper(store).Start(ctx)
//
//	cookies, _ := cookie.New([]string{secret})
//	interceptor := session.NewInterceptor(store, session.NewCookieTransport(cookies, "sid"))
//
//	mux.Handle("/", interceptor.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    sess, err := session.Get(r.Context(), true)
//	    if err != nil { ... }
//	    n, _ := sess.GetInt("visits")
//	    sess.Set("visits", n+1)
//	})))
//
// Application types stored as attributes must be registered with the
// store's Registry so they can be decoded:
//
//	session.MustRegister[Cart](store.Registry(), "cart")
//
// # Consistency
//
// Concurrent requests for the same session id are not coordinated; the last
// save wins. Only Store operations block on I/O.
//
// # Error Handling
//
//   - ErrStoreIO – the document store failed; Load and Save return it
//   - ErrDecode  – stored data is corrupt or references an unregistered tag
//
// Remove and SweepExpired log failures instead of returning them.
package session
