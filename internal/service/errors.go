package service

import "errors"

// Domain error taxonomy. Handlers map these to HTTP codes at the gateway
// boundary; conflicts (idempotency replay, vendor-creation race) are resolved
// internally by re-fetch and never surface as errors.
var (
	ErrNotFound  = errors.New("enregistrement introuvable")
	ErrForbidden = errors.New("acces refuse")

	// Validation
	ErrValidation      = errors.New("donnees invalides")
	ErrLigneInvalide   = errors.New("chaque ligne doit referencer un type de pain actif avec quantite > 0")
	ErrMontantInvalide = errors.New("le montant doit etre superieur a zero")
	ErrMotifManquant   = errors.New("le motif est obligatoire pour les sorties de caisse")

	// Auth
	ErrIdentifiantsInvalides = errors.New("identifiants invalides")
	ErrTokenInvalide         = errors.New("token invalide ou expire")

	// State
	ErrSessionFermee        = errors.New("impossible d'operer sur une session fermee")
	ErrAucuneSessionOuverte = errors.New("aucune session ouverte pour l'utilisateur")
	ErrEtatInvalide         = errors.New("operation invalide pour l'etat courant")
)
