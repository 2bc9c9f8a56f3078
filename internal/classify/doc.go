// Package classify categorizes arbitrary in-memory values into a closed
// set of structural kinds and enumerates the children of container
// values in a deterministic order.
//
// The kind set is a tagged variant, not an open type-assertion chain:
// every branch that handles containers switches over Kind, so adding a
// new container kind is a compile-visible change at each dispatch site.
//
// Classification is a pure, total function. There are no failure modes;
// values the classifier does not recognize degrade to an opaque
// primitive rendering.
package classify
