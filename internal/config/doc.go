// Package config loads the mapper override file.
//
// The file lists pairs to generate, optionally with an explicit mapper name:
//
//	mappers:
//	  - source: example.com/app/entity.User
//	    target: example.com/app/dto.UserReadDTO
//	    mapper_name: UserReadMapper
//
// "entity" and "dto" are accepted in place of "source" and "target". The
// loaded table is extended in memory during a run and never written back.
package config
