package domains

// multiPartSuffixes lists second-level registration suffixes under country
// code TLDs. A domain ending in one of these registers at the third label,
// so "amazon.co.uk" is the service identity and "co.uk" is not.
//
// The table is intentionally static and non-exhaustive: it covers the
// registries that actually appear in browser password exports. A full
// public-suffix dataset would shift cluster identities every time the
// upstream list changes, which matters more here than completeness.
var multiPartSuffixes = []string{
	// United Kingdom
	"co.uk", "org.uk", "net.uk", "me.uk", "ltd.uk", "plc.uk",
	"ac.uk", "gov.uk", "sch.uk", "nhs.uk",
	// Australia
	"com.au", "net.au", "org.au", "edu.au", "gov.au", "asn.au", "id.au",
	// New Zealand
	"co.nz", "net.nz", "org.nz", "ac.nz", "govt.nz", "school.nz",
	"geek.nz", "gen.nz", "maori.nz",
	// Brazil
	"com.br", "net.br", "org.br", "gov.br", "edu.br", "mil.br", "art.br",
	// Japan
	"co.jp", "or.jp", "ne.jp", "ac.jp", "ad.jp", "ed.jp", "go.jp",
	"gr.jp", "lg.jp",
	// South Africa
	"co.za", "org.za", "net.za", "gov.za", "ac.za", "web.za",
	// India
	"co.in", "net.in", "org.in", "firm.in", "gen.in", "ind.in",
	"ac.in", "edu.in", "gov.in", "res.in",
	// China
	"com.cn", "net.cn", "org.cn", "gov.cn", "edu.cn", "ac.cn",
	// Mexico
	"com.mx", "net.mx", "org.mx", "edu.mx", "gob.mx",
	// Argentina
	"com.ar", "net.ar", "org.ar", "edu.ar", "gob.ar", "mil.ar",
	// Singapore
	"com.sg", "net.sg", "org.sg", "edu.sg", "gov.sg", "per.sg",
	// Hong Kong
	"com.hk", "net.hk", "org.hk", "edu.hk", "gov.hk", "idv.hk",
	// Taiwan
	"com.tw", "net.tw", "org.tw", "edu.tw", "gov.tw", "idv.tw",
	// Malaysia
	"com.my", "net.my", "org.my", "edu.my", "gov.my", "mil.my",
	// Indonesia
	"co.id", "net.id", "or.id", "ac.id", "go.id", "sch.id", "web.id", "my.id",
	// Thailand
	"co.th", "net.th", "or.th", "ac.th", "go.th", "in.th",
	// South Korea
	"co.kr", "ne.kr", "or.kr", "re.kr", "pe.kr", "go.kr", "ac.kr",
	// Israel
	"co.il", "net.il", "org.il", "ac.il", "gov.il", "muni.il",
	// Turkey
	"com.tr", "net.tr", "org.tr", "edu.tr", "gov.tr", "bel.tr", "web.tr",
	// Russia
	"com.ru", "net.ru", "org.ru", "msk.ru", "spb.ru",
	// Ukraine
	"com.ua", "net.ua", "org.ua", "edu.ua", "gov.ua", "in.ua",
	// Poland
	"com.pl", "net.pl", "org.pl", "edu.pl", "gov.pl", "waw.pl",
	// Philippines
	"com.ph", "net.ph", "org.ph", "edu.ph", "gov.ph",
	// Vietnam
	"com.vn", "net.vn", "org.vn", "edu.vn", "gov.vn", "ac.vn",
	// Egypt
	"com.eg", "net.eg", "org.eg", "edu.eg", "gov.eg",
	// Saudi Arabia
	"com.sa", "net.sa", "org.sa", "edu.sa", "gov.sa", "med.sa",
	// United Arab Emirates
	"co.ae", "net.ae", "org.ae", "ac.ae", "gov.ae",
	// Nigeria
	"com.ng", "net.ng", "org.ng", "edu.ng", "gov.ng",
	// Kenya
	"co.ke", "ne.ke", "or.ke", "ac.ke", "go.ke", "sc.ke",
	// Pakistan
	"com.pk", "net.pk", "org.pk", "edu.pk", "gov.pk",
	// Bangladesh
	"com.bd", "net.bd", "org.bd", "edu.bd", "gov.bd", "ac.bd",
	// Sri Lanka
	"com.lk", "net.lk", "org.lk", "edu.lk", "gov.lk", "ac.lk",
	// Nepal
	"com.np", "net.np", "org.np", "edu.np", "gov.np",
	// Uruguay
	"com.uy", "net.uy", "org.uy", "edu.uy", "gub.uy",
	// Paraguay
	"com.py", "net.py", "org.py", "edu.py", "gov.py",
	// Peru
	"com.pe", "net.pe", "org.pe", "edu.pe", "gob.pe", "nom.pe",
	// Colombia
	"com.co", "net.co", "org.co", "edu.co", "gov.co", "nom.co",
	// Venezuela
	"com.ve", "net.ve", "org.ve", "edu.ve", "gob.ve",
	// Ecuador
	"com.ec", "net.ec", "org.ec", "edu.ec", "gob.ec", "fin.ec",
	// Bolivia
	"com.bo", "net.bo", "org.bo", "edu.bo", "gob.bo",
	// Costa Rica
	"co.cr", "ac.cr", "ed.cr", "fi.cr", "go.cr", "or.cr", "sa.cr",
	// Guatemala
	"com.gt", "net.gt", "org.gt", "edu.gt", "gob.gt",
}
