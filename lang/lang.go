// Package lang holds the bot's message catalog.
package lang

import "fmt"

const (
	En = "en"
	Uz = "uz"
)

// Default is used when a user has not picked a language.
const Default = En

func Supported(code string) bool {
	_, ok := catalog[code]
	return ok
}

// T formats the message for key in the given language, falling back to English and then to the key itself.
func T(code, key string, args ...interface{}) string {
	msg, ok := catalog[code][key]
	if !ok {
		msg, ok = catalog[En][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

var catalog = map[string]map[string]string{
	En: {
		"choose_lang":      "Choose a language / Tilni tanlang",
		"language_changed": "Language changed to English.",
		"welcome":          "Welcome to the coffee bar! Order from your table, collect points, keep favorites.",
		"btn_menu":         "☕ Menu",
		"btn_cart":         "🛒 Cart",
		"btn_favorites":    "❤️ Favorites",
		"btn_back":         "⬅️ Back",
		"menu_title":       "Choose a category",
		"cat_coffee":       "☕ Coffee",
		"cat_tea":          "🍵 Tea",
		"cat_cold":         "🧊 Cold drinks",
		"cat_pastry":       "🥐 Pastry",
		"cat_dessert":      "🍰 Desserts",
		"category_empty":   "Nothing available in this category right now.",
		"item_new":         "NEW",
		"added":            "Added %s",
		"item_unavailable": "This item is not available right now.",
		"cart_title":       "🛒 Your cart",
		"cart_empty":       "Your cart is empty.",
		"cart_total":       "Total: %s",
		"cart_table":       "Table: %s",
		"cart_note":        "Note: %s",
		"btn_clear":        "🗑 Clear",
		"btn_checkout":     "✅ Checkout",
		"cart_cleared":     "Cart cleared.",
		"choose_table":     "Which table are you at?",
		"table_selected":   "Table %s selected.",
		"note_saved":       "Note saved.",
		"note_usage":       "Usage: /note extra hot, oat milk",
		"submitting":       "Your order is already being placed, please wait.",
		"order_placed":     "✅ Order %s placed!",
		"receipt_table":    "Table %s",
		"receipt_total":    "Total: %s",
		"receipt_note":     "Note: %s",
		"points_earned":    "⭐ +%d loyalty points",
		"btn_order_again":  "☕ Order again",
		"sign_in_prompt":   "Please sign in first: tap the button below to share your phone number.",
		"btn_share_phone":  "📱 Share phone number",
		"signed_in":        "Thanks %s, you are signed in.",
		"fav_added":        "❤️ Added to favorites",
		"fav_removed":      "Removed from favorites",
		"fav_failed":       "Could not update favorites, please try again.",
		"favorites_title":  "❤️ Your favorites",
		"favorites_empty":  "You have no favorites yet. Tap ♡ next to a drink to add one.",
		"points_balance":   "⭐ You have %d points.",
		"points_history":   "Recent activity:",
		"orders_title":     "🧾 Your recent orders",
		"orders_empty":     "You have no orders yet.",
		"forbidden":        "This command is for staff only.",
		"stats":            "📊 %s\nOrders: %d\nRevenue: %s\nItems sold: %d\nPoints awarded: %d",
		"stats_usage":      "Usage: /stats [YYYY-MM-DD]",
		"stock_usage":      "Usage: /soldout <item id> or /instock <item id>",
		"stock_updated":    "Item %s updated.",
		"not_found":        "Item not found.",
		"error_generic":    "Something went wrong, please try again.",
	},
	Uz: {
		"language_changed": "Til o'zbekchaga o'zgartirildi.",
		"welcome":          "Qahvaxonaga xush kelibsiz! Stolingizdan buyurtma bering, ball to'plang, sevimlilarni saqlang.",
		"btn_menu":         "☕ Menyu",
		"btn_cart":         "🛒 Savat",
		"btn_favorites":    "❤️ Sevimlilar",
		"btn_back":         "⬅️ Orqaga",
		"menu_title":       "Bo'limni tanlang",
		"cat_coffee":       "☕ Qahva",
		"cat_tea":          "🍵 Choy",
		"cat_cold":         "🧊 Sovuq ichimliklar",
		"cat_pastry":       "🥐 Pishiriqlar",
		"cat_dessert":      "🍰 Desertlar",
		"category_empty":   "Bu bo'limda hozircha hech narsa yo'q.",
		"item_new":         "YANGI",
		"added":            "%s qo'shildi",
		"item_unavailable": "Bu mahsulot hozir mavjud emas.",
		"cart_title":       "🛒 Savatingiz",
		"cart_empty":       "Savatingiz bo'sh.",
		"cart_total":       "Jami: %s",
		"cart_table":       "Stol: %s",
		"cart_note":        "Izoh: %s",
		"btn_clear":        "🗑 Tozalash",
		"btn_checkout":     "✅ Rasmiylashtirish",
		"cart_cleared":     "Savat tozalandi.",
		"choose_table":     "Qaysi stoldasiz?",
		"table_selected":   "%s-stol tanlandi.",
		"note_saved":       "Izoh saqlandi.",
		"note_usage":       "Foydalanish: /note issiqroq, sutsiz",
		"submitting":       "Buyurtmangiz rasmiylashtirilmoqda, iltimos kuting.",
		"order_placed":     "✅ %s buyurtma qabul qilindi!",
		"receipt_table":    "%s-stol",
		"receipt_total":    "Jami: %s",
		"receipt_note":     "Izoh: %s",
		"points_earned":    "⭐ +%d ball",
		"btn_order_again":  "☕ Yana buyurtma",
		"sign_in_prompt":   "Avval tizimga kiring: telefon raqamingizni yuborish uchun pastdagi tugmani bosing.",
		"btn_share_phone":  "📱 Telefon raqamni yuborish",
		"signed_in":        "Rahmat %s, tizimga kirdingiz.",
		"fav_added":        "❤️ Sevimlilarga qo'shildi",
		"fav_removed":      "Sevimlilardan olib tashlandi",
		"fav_failed":       "Sevimlilarni yangilab bo'lmadi, qayta urinib ko'ring.",
		"favorites_title":  "❤️ Sevimlilaringiz",
		"favorites_empty":  "Hali sevimlilar yo'q. Qo'shish uchun ichimlik yonidagi ♡ ni bosing.",
		"points_balance":   "⭐ Sizda %d ball bor.",
		"points_history":   "So'nggi harakatlar:",
		"orders_title":     "🧾 So'nggi buyurtmalaringiz",
		"orders_empty":     "Hali buyurtmalar yo'q.",
		"forbidden":        "Bu buyruq faqat xodimlar uchun.",
		"not_found":        "Mahsulot topilmadi.",
		"error_generic":    "Xatolik yuz berdi, qayta urinib ko'ring.",
	},
}
