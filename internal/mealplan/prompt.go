package mealplan

import (
	"fmt"

	"nutriai/nutrition-app/internal/domain"
)

// promptTemplate describes the exact JSON shape the client data model binds to.
// Placeholders, in order: name, gender, weight, height, age, objective, level.
const promptTemplate = `Crie um plano alimentar de um dia para uma pessoa com os seguintes dados:
- Nome: %s
- Sexo: %s
- Peso: %s kg
- Altura: %s cm
- Idade: %s anos
- Objetivo: %s
- Nível de atividade: %s

O resultado DEVE ser um objeto JSON único. O JSON deve conter uma propriedade "refeicoes", que é um array de objetos.
Cada objeto de refeição no array DEVE ter EXATAMENTE as seguintes propriedades, sem acentos nos nomes das chaves:
- "id": uma string identificadora sem espaços (ex: "cafeDaManha", "almoco").
- "nome": o nome da receita (ex: "Panqueca de farelo de aveia").
- "categoria": o nome da refeição (ex: "Café da manhã").
- "kcal": um número para as calorias totais.
- "proteinas": um número para as proteínas em gramas.
- "carboidratos": um número para os carboidratos em gramas.
- "gorduras": um número para as gorduras em gramas.
- "ingredientes": um array de objetos, onde cada objeto tem uma única propriedade "texto" (ex: [{ "texto": "1 ovo" }, { "texto": "1 colher de sopa de aveia" }]).
- "tempoPreparo": uma string descrevendo o tempo (ex: "10-15 minutos").
- "modoPreparo": um array de strings, onde cada string é um passo do preparo.

Gere um plano completo para o dia todo com 5 a 6 refeições seguindo esta estrutura. O JSON final deve ser apenas o objeto contendo o array "refeicoes".`

// BuildPrompt interpolates the attributes verbatim into the fixed template.
func BuildPrompt(attrs domain.UserAttributes) string {
	return fmt.Sprintf(promptTemplate,
		attrs.Name,
		attrs.Gender,
		attrs.Weight,
		attrs.Height,
		attrs.Age,
		attrs.Objective,
		attrs.Level,
	)
}
