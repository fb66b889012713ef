// Package consts defines application-wide constants: character sets, context
// and header keys, and the external id prefixes of each entity kind.
package consts
