// Package scope resolves named attributes across the four tiers visible to a
// running page: page, request, session and application.
//
// The page tier is created fresh for every request and discarded on Release.
// The other three tiers are owned by the host and only referenced. Lookups with
// an explicit Tier read that tier only; Find and AttributesScope walk the tiers
// in priority order, skipping the session tier entirely when the request has no
// session.
//
//	pc := scope.New()
//	if err := pc.Initialize(requestAttrs, sess, appAttrs); err != nil {
//		return err
//	}
//	defer pc.Release()
//
//	pc.SetAttribute("title", "Home")          // page tier
//	v := pc.Find("user")                      // first tier holding "user"
//	tier := pc.AttributesScope("user")        // scope.None when absent
//
// A nil value is never stored: setting nil removes the attribute.
package scope
