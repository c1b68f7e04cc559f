package webhook

import "strings"

const (
	TopicAppUninstalled       = "app_uninstalled"
	TopicShopUpdate           = "shop_update"
	TopicCustomersDataRequest = "customers_data_request"
	TopicCustomersRedact      = "customers_redact"
	TopicShopRedact           = "shop_redact"
)

// NormalizeTopic maps Shopify topic strings to their internal form:
// "app/uninstalled" -> "app_uninstalled", "Shop.Update" -> "shop_update".
func NormalizeTopic(topic string) string {
	t := strings.TrimSpace(strings.ToLower(topic))
	t = strings.NewReplacer("/", "_", ".", "_", "-", "_").Replace(t)
	for strings.Contains(t, "__") {
		t = strings.ReplaceAll(t, "__", "_")
	}
	return strings.Trim(t, "_")
}
