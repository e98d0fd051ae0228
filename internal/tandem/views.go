package tandem

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/tandemlist/tandem/internal/docstore"
)

// View is a typed live query: every relevant store change delivers the
// full decoded, sorted snapshot on C. Consumers must call Cancel when
// done; afterwards no value is delivered and C closes.
type View[T any] struct {
	C <-chan []T

	sub *docstore.Subscription
}

// Cancel releases the underlying subscription.
func (v *View[T]) Cancel() {
	v.sub.Cancel()
}

// newView adapts a raw document subscription into a typed, sorted view.
// Documents that fail to decode are dropped with a warning rather than
// poisoning the whole snapshot.
func newView[T any](
	sub *docstore.Subscription,
	decode func(docstore.Document) (T, error),
	less func(a, b T) bool,
	log zerolog.Logger,
) *View[T] {
	out := make(chan []T, 1)

	go func() {
		defer close(out)
		for docs := range sub.C() {
			items := make([]T, 0, len(docs))
			for _, d := range docs {
				item, err := decode(d)
				if err != nil {
					log.Warn().Err(err).Str("doc", d.ID).Msg("dropping undecodable document")
					continue
				}
				items = append(items, item)
			}
			sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })

			// Latest-wins: replace a stale buffered snapshot instead of
			// queueing behind it.
			for {
				select {
				case out <- items:
				default:
					select {
					case <-out:
					default:
					}
					continue
				}
				break
			}
		}
	}()

	return &View[T]{C: out, sub: sub}
}
