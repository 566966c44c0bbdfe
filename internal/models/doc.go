// Package models defines the session-scoped data model for the listening
// history pipeline.
//
// Two categories of types:
//
//  1. Pipeline outputs consumed by the presentation layer:
//     - [User] : the authenticated listener
//     - [PlaybackSnapshot] : what is playing right now (or a sentinel)
//     - [RecentTrack] : one entry of the recent distinct tracks list
//     - [RankedEntity] / [EnrichedEntity] : frequency-ranked artists or tracks
//     - [Playlist] : a playlist created through the app
//
//  2. Transient inputs: [HistoryRecord], the raw unit of the recently-played
//     feed, consumed immediately by the ranking engine and not retained.
//
// Sentinel constructors ([NothingPlayingSnapshot], [ErrorSnapshot]) produce
// well-formed placeholder values so consumers never observe an absent or
// thrown value.
package models
