package category

// taxonomyEntry maps a category name to representative merchant substrings.
type taxonomyEntry struct {
	name     string
	keywords []string
}

// taxonomy is the static fallback used when the user's history and category
// names give no answer. Ordered most specific domain first; lowercased
// because Recognize lowers the description before matching.
var taxonomy = []taxonomyEntry{
	{"Mercado", []string{
		"supermercado", "mercado", "carrefour", "pao de acucar", "atacadao",
		"assai", "hortifruti", "sacolao",
	}},
	{"Alimentação", []string{
		"ifood", "restaurante", "lanchonete", "padaria", "pizzaria",
		"burger", "mc donalds", "mcdonalds", "habibs", "subway", "cafeteria",
	}},
	{"Transporte", []string{
		"uber", "99app", "99 tecnologia", "posto", "shell", "ipiranga",
		"estacionamento", "pedagio", "metro", "onibus",
	}},
	{"Saúde", []string{
		"farmacia", "drogaria", "drogasil", "pague menos", "hospital",
		"clinica", "laboratorio", "odonto",
	}},
	{"Vestuário", []string{
		"renner", "riachuelo", "c&a", "zara", "shein", "centauro", "nike",
		"adidas", "calcados",
	}},
	{"Assinaturas", []string{
		"netflix", "spotify", "amazon prime", "prime video", "disney",
		"hbo", "globoplay", "youtube premium", "apple.com", "google one",
	}},
	{"Casa", []string{
		"leroy merlin", "tok stok", "magazineluiza", "magalu", "americanas",
		"casas bahia", "ponto frio", "moveis",
	}},
	{"Educação", []string{
		"escola", "faculdade", "universidade", "curso", "livraria", "udemy",
		"alura",
	}},
	{"Viagem", []string{
		"hotel", "airbnb", "latam", "gol linhas", "azul linhas", "booking",
		"decolar", "pousada",
	}},
}
