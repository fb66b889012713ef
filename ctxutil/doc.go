// Package ctxutil carries request-scoped values (trace id, tenant name, client
// IP) through context.Context, transparently reading from an embedded
// *gin.Context when one is present.
package ctxutil
