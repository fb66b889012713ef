// Package snowflake provides a 64-bit, time-ordered unique identifier generator
// and the prefixed external identifiers derived from it.
//
// # Format
//
// Keys are positive int64 values laid out MSB to LSB as:
//
//	[1 bit zero][41 bits ms since Epoch][5 bits datacenter][5 bits worker][12 bits sequence]
//
// Keys minted by one Generator are strictly increasing. Keys minted by different
// generators never collide as long as every (worker, datacenter) pair is
// configured once across the deployment.
//
// # Clock
//
// The generator refuses to mint a key when the wall clock is behind the last
// timestamp it used and returns ErrClockRegression instead. When the 4096 keys
// of one millisecond are exhausted it spins until the clock reaches the next
// millisecond.
//
// # External ids
//
// GeneratePrefixedID renders a key for display as
//
//	<prefix>_<lowercase hex key><20 random alphanumerics>
//
// # Usage
//
//	g, err := snowflake.New(1, 1)
//	key, err := g.Generate()
//	id := snowflake.GeneratePrefixedID("file", key) // file_1a2b...Xy9
package snowflake
