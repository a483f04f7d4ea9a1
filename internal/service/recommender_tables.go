package service

import "odontofast/internal/domain"

// recKey indexa las tablas de decisión por tipo de tratamiento normalizado y
// estágio. El tipo vacío ("") es la fila por defecto para tratamientos sin
// reglas propias.
type recKey struct {
	treatment string
	stage     domain.TreatmentStage
}

// careBase son los cuidados universales, presentes en toda respuesta.
var careBase = []string{
	"Mantenha uma boa higiene bucal escovando os dentes após as refeições",
	"Use fio dental diariamente para remover resíduos entre os dentes",
}

// nextStepsBase es el próximo paso universal, presente en toda respuesta.
var nextStepsBase = []string{
	"Compareça às consultas agendadas para o melhor resultado",
}

// careTable contiene los cuidados específicos por tratamiento y estágio.
// Ortodontia lleva dos líneas fijas para todo estágio más una variable.
var careTable = map[recKey][]string{
	{"ortodontia", domain.StageInitial}: {
		"Use escova interdental para limpar ao redor do aparelho",
		"Evite alimentos duros, pegajosos ou muito açucarados",
		"Use cera ortodôntica se sentir desconforto com os fios ou bráquetes",
	},
	{"ortodontia", domain.StageIntermediate}: {
		"Use escova interdental para limpar ao redor do aparelho",
		"Evite alimentos duros, pegajosos ou muito açucarados",
		"Mantenha os elásticos conforme orientação do ortodontista",
	},
	{"ortodontia", domain.StageFinal}: {
		"Use escova interdental para limpar ao redor do aparelho",
		"Evite alimentos duros, pegajosos ou muito açucarados",
		"Prepare-se para o uso de contenção após a remoção do aparelho",
	},
	{"implante", domain.StageInitial}: {
		"Evite alimentos duros ou pegajosos na área do implante",
		"Tome os antibióticos e anti-inflamatórios conforme prescrição",
	},
	{"implante", domain.StageIntermediate}: {
		"Evite fumar durante todo o tratamento",
		"Mantenha a área do implante muito limpa para evitar infecções",
	},
	{"implante", domain.StageFinal}: {
		"Escove ao redor da coroa do implante com cuidado",
		"Utilize escovas interproximais para limpeza adequada",
	},
	{"canal", domain.StageInitial}: {
		"Evite mastigar com o dente tratado até a restauração definitiva",
		"Tome analgésicos conforme orientação para controle da dor",
	},
	{"canal", domain.StageIntermediate}: {
		"Mantenha boa higiene para evitar reinfecção do canal",
		"Informe qualquer sintoma persistente ao dentista",
	},
	{"canal", domain.StageFinal}: {
		"Proteja o dente tratado evitando morder alimentos muito duros",
		"Mantenha visitas regulares para acompanhamento",
	},
}

// careDefault cubre tratamientos sin fila propia; no varía por estágio.
var careDefault = []string{
	"Siga as orientações específicas do seu dentista",
	"Mantenha as consultas de acompanhamento regulares",
}

// nextStepsTable contiene las próximas etapas por tratamiento y estágio.
var nextStepsTable = map[recKey][]string{
	{"ortodontia", domain.StageInitial}: {
		"Prepare-se para ajustes mensais no aparelho",
		"Consiga os materiais de higiene específicos para aparelho",
	},
	{"ortodontia", domain.StageIntermediate}: {
		"Mantenha o uso dos elásticos conforme orientação",
		"Programe os próximos ajustes com antecedência",
	},
	{"ortodontia", domain.StageFinal}: {
		"Prepare-se para a remoção do aparelho",
		"Discuta o uso de contenção após o tratamento",
	},
	{"implante", domain.StageInitial}: {
		"Programe a avaliação de cicatrização inicial",
		"Organize o tempo para os retornos necessários",
	},
	{"implante", domain.StageIntermediate}: {
		"Prepare-se para a fase de colocação do cicatrizador",
		"Discuta as opções para a prótese definitiva",
	},
	{"implante", domain.StageFinal}: {
		"Prepare-se para a moldagem e instalação da coroa definitiva",
		"Programe consultas de manutenção periódicas",
	},
	{"canal", domain.StageInitial}: {
		"Prepare-se para concluir o tratamento endodôntico",
		"Discuta as opções de restauração definitiva",
	},
	{"canal", domain.StageIntermediate}: {
		"Prepare-se para a avaliação final do canal",
		"Programe a restauração definitiva",
	},
	{"canal", domain.StageFinal}: {
		"Realize uma consulta de acompanhamento em 6 meses",
		"Considere uma proteção adicional (ex: coroa) se recomendado",
	},
}

// nextStepsDefault cubre tratamientos sin fila propia; no varía por estágio.
var nextStepsDefault = []string{
	"Solicite ao dentista um detalhamento das próximas etapas",
	"Programe as próximas consultas com base no plano de tratamento",
}

// closingTable es la frase de cierre del mensaje personalizado, por tipo.
var closingTable = map[string]string{
	"ortodontia": "Lembre-se que um sorriso bem alinhado traz benefícios estéticos e funcionais para toda a vida.",
	"implante":   "Os implantes dentários têm alta taxa de sucesso e podem durar uma vida inteira com os cuidados adequados.",
	"canal":      "O tratamento de canal salva seu dente natural, permitindo que você mantenha sua mordida natural e sorriso saudável.",
}

// closingDefault cierra el mensaje para tratamientos sin frase propia.
const closingDefault = "Sua saúde bucal é parte importante da sua saúde geral. Estamos aqui para apoiá-lo nessa jornada."

// genericCare y genericNextSteps forman la respuesta degradada cuando algo
// falla aguas abajo (excepto usuario inexistente, que sí es un error).
var genericCare = []string{
	"Mantenha uma boa higiene bucal",
	"Escove os dentes após as refeições",
}

var genericNextSteps = []string{
	"Continue seguindo o plano de tratamento",
	"Compareça às consultas agendadas",
}

const genericMessage = "Continue cuidando da sua saúde bucal!"
