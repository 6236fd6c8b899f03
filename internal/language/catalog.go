// Package language は対応言語カタログと言語ネゴシエーションを提供する。
package language

// English は翻訳をスキップする正規言語名。
// カタログの先頭に常に存在し、プロバイダコードを持たない。
const English = "english"

// entry は正規言語名とプロバイダコードの対応を表す。
type entry struct {
	name string // 正規言語名（小文字1語）
	code string // 翻訳プロバイダが期待する短縮コード
}

// catalog は対応言語の固定カタログ。プロセス全体で読み取り専用。
// 順序はGET /languagesのレスポンス順として保持される。
var catalog = []entry{
	// インド系言語
	{"hindi", "hi"},
	{"bengali", "bn"},
	{"telugu", "te"},
	{"tamil", "ta"},
	{"gujarati", "gu"},
	{"kannada", "kn"},
	{"malayalam", "ml"},
	{"punjabi", "pa"},
	{"urdu", "ur"},
	{"marathi", "mr"},
	{"odia", "or"},

	// アジア系言語
	{"chinese", "zh-cn"},
	{"japanese", "ja"},
	{"korean", "ko"},
	{"vietnamese", "vi"},
	{"thai", "th"},
	{"indonesian", "id"},

	// ヨーロッパ系言語
	{"spanish", "es"},
	{"french", "fr"},
	{"german", "de"},
	{"italian", "it"},
	{"portuguese", "pt"},
	{"russian", "ru"},
	{"dutch", "nl"},
	{"polish", "pl"},
	{"swedish", "sv"},
	{"norwegian", "no"},

	// 中東系言語
	{"arabic", "ar"},
	{"turkish", "tr"},
	{"hebrew", "he"},
	{"persian", "fa"},

	// その他
	{"filipino", "tl"},
	{"swahili", "sw"},
	{"greek", "el"},
	{"ukrainian", "uk"},
}

// codes は正規言語名からプロバイダコードへの検索用マップ。
// パッケージ初期化時にcatalogから構築し、以後変更しない。
var codes = func() map[string]string {
	m := make(map[string]string, len(catalog))
	for _, e := range catalog {
		m[e.name] = e.code
	}
	return m
}()

// Resolve は正規言語名をプロバイダコードに解決する。
// 照合は小文字の正規名との完全一致のみで、曖昧一致やデフォルト補完は行わない。
// "english" は skip=true を返し、翻訳呼び出し自体を省略することを示す。
// 未知の言語名は ok=false を返し、呼び出し側のエラーとなる。
func Resolve(name string) (code string, skip bool, ok bool) {
	if name == English {
		return "", true, true
	}
	code, ok = codes[name]
	return code, false, ok
}

// Supported は指定された正規言語名がカタログに含まれるかを返す。
func Supported(name string) bool {
	_, _, ok := Resolve(name)
	return ok
}

// Names は全対応言語の正規名を返す。"english" が常に先頭。
// 返されるスライスは呼び出しごとに新規作成されるため、呼び出し側が変更してもよい。
func Names() []string {
	names := make([]string, 0, len(catalog)+1)
	names = append(names, English)
	for _, e := range catalog {
		names = append(names, e.name)
	}
	return names
}
