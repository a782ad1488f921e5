package platform

import "golang.org/x/sys/cpu"

// CacheLinePad is a zero-sized-on-the-wire, padding-sized-in-memory field
// that keeps whatever follows it from sharing a cache line with whatever
// precedes it. Several lock algorithms (spin, ticket, word-lock,
// parking-lot's bucket) embed one next to their hot atomic state per
// spec.md §9 "Cache-line false sharing". Grounded on the pack's own use of
// golang.org/x/sys/cpu.CacheLinePad for exactly this purpose.
type CacheLinePad = cpu.CacheLinePad
