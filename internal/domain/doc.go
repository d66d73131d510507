// Package domain contains the core business entities, value objects, and
// domain rules of the phrasebook: the Phrase entity, its closed set of
// learning statuses, and the validation rules every stored phrase obeys.
// It is independent of any storage engine or delivery mechanism.
package domain
