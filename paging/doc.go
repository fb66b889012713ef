// Package paging provides keyset pagination over collections ordered by a
// monotonically increasing int64 key.
//
// Cursors are the external ids of entities. A cursor is resolved to the key
// of the entity it names and turned into an exclusive bound of a range query,
// so pages never skip or repeat rows when new rows are appended.
//
// # Basic Usage
//
//	params := paging.Params{
//	    After: c.Query("after"),
//	    Limit: 20,
//	    Order: paging.ParseOrder(c.Query("order")),
//	}
//
//	result, err := paging.Paginate(ctx, store, params)
//	if errors.Is(err, paging.ErrInvalidCursor) {
//	    // 400
//	}
//
// # Cursor Direction
//
// "after" always means further along the requested order and "before" means
// the opposite:
//
//	order  after      before
//	asc    key > c    key < c
//	desc   key < c    key > c
//
// # More Flags
//
// Each call fetches Limit+1 rows and only learns whether more rows exist past
// the end of the page, in the direction of the order. That answer is reported
// as HasMoreAfter for descending pages and HasMoreBefore for ascending pages;
// the other flag is always false. See Flags.
//
// # Response Structure
//
//	{
//	  "items": [...],
//	  "pagination": {"has_more_before": false, "has_more_after": true}
//	}
package paging
