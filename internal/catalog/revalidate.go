package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Revalidate drops cached reads affected by a storefront webhook topic.
// Product topics clear product reads, collection topics clear collection
// reads, and anything else is ignored. The returned slice names the tags
// that were invalidated.
func (s *Service) Revalidate(ctx context.Context, topic string) ([]string, error) {
	var tags []string
	switch {
	case strings.HasPrefix(topic, "products/"):
		tags = []string{TagProducts}
	case strings.HasPrefix(topic, "collections/"):
		tags = []string{TagCollections}
	case strings.HasPrefix(topic, "pages/"):
		tags = []string{TagPages}
	default:
		s.logg.Info(ctx, "ignoring webhook topic "+topic)
		return nil, nil
	}

	if !s.cacheEnabled() {
		return tags, nil
	}

	for _, tag := range tags {
		dropped, err := s.cache.InvalidateTag(ctx, tag)
		if err != nil {
			return nil, err
		}
		s.logg.Info(ctx, fmt.Sprintf("invalidated cache tag %s (%d keys)", tag, dropped))
	}
	return tags, nil
}
