package shared

// User-facing strings stay in French: the back office is operated in French
// and the texts are part of the observable behavior. Keyed per operation so
// a deployment can override them wholesale.

type MessageKey string

const (
	MsgFetchCountries     MessageKey = "fetch.pays"
	MsgFetchDestinations  MessageKey = "fetch.destinations"
	MsgFetchRequirements  MessageKey = "fetch.exigences"
	MsgFetchAssociations  MessageKey = "fetch.associations"
	MsgFetchServiceParams MessageKey = "fetch.parametres"
	MsgFetchReasons       MessageKey = "fetch.motifs"
	MsgFetchCountryDetail MessageKey = "fetch.pays.detail"
	MsgFetchReservation   MessageKey = "fetch.dossier"

	MsgCreateCountry      MessageKey = "create.pays"
	MsgCreateDestination  MessageKey = "create.destination"
	MsgCreateRequirement  MessageKey = "create.exigence"
	MsgCreateAssociation  MessageKey = "create.association"
	MsgCreateServiceParam MessageKey = "create.parametre"

	MsgApprove      MessageKey = "action.approuver"
	MsgIssueTicket  MessageKey = "action.billet"
	MsgIssueInvoice MessageKey = "action.facture"
	MsgSettle       MessageKey = "action.regler"
	MsgCancel       MessageKey = "action.annuler"
	MsgReserveLine  MessageKey = "action.reserver"
	MsgConfirmLine  MessageKey = "action.confirmer"

	MsgRequiredFields  MessageKey = "validation.requis"
	MsgInvalidResponse MessageKey = "reponse.invalide"
)

// Messages is the default (French) table of per-operation fallbacks, used
// when the backend error body carries no message of its own.
type Messages map[MessageKey]string

func DefaultMessages() Messages {
	return Messages{
		MsgFetchCountries:     "Erreur lors du chargement des pays",
		MsgFetchDestinations:  "Erreur lors du chargement des destinations",
		MsgFetchRequirements:  "Erreur lors du chargement des exigences",
		MsgFetchAssociations:  "Erreur lors du chargement des associations",
		MsgFetchServiceParams: "Erreur lors du chargement des paramètres",
		MsgFetchReasons:       "Erreur lors du chargement des motifs d'annulation",
		MsgFetchCountryDetail: "Erreur lors du chargement du détail du pays",
		MsgFetchReservation:   "Erreur lors du chargement du dossier hôtel",

		MsgCreateCountry:      "Erreur lors de la création du pays",
		MsgCreateDestination:  "Erreur lors de la création de la destination",
		MsgCreateRequirement:  "Erreur lors de la création de l'exigence",
		MsgCreateAssociation:  "Erreur lors de la création de l'association",
		MsgCreateServiceParam: "Erreur lors de la création du paramètre",

		MsgApprove:      "Erreur lors de l'approbation du bon de commande",
		MsgIssueTicket:  "Erreur lors de l'émission du billet",
		MsgIssueInvoice: "Erreur lors de l'émission de la facture",
		MsgSettle:       "Erreur lors du règlement de la facture",
		MsgCancel:       "Erreur lors de l'annulation",
		MsgReserveLine:  "Erreur lors de la réservation de la ligne",
		MsgConfirmLine:  "Erreur lors de la confirmation de la ligne",

		MsgRequiredFields:  "Veuillez renseigner tous les champs obligatoires",
		MsgInvalidResponse: "Réponse du serveur invalide",
	}
}

// Get returns the message for k, falling back to the key itself so a
// missing entry is still visible rather than silent.
func (m Messages) Get(k MessageKey) string {
	if s, ok := m[k]; ok {
		return s
	}
	return string(k)
}
