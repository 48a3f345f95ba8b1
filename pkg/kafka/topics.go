package kafka

import "fmt"

// TopicPrefix namespaces every topic this service publishes.
const TopicPrefix = "storefront"

// Topic builds a fully qualified topic name from a domain and an action,
// e.g. Topic("cart", "updated") -> "storefront.cart.updated".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
