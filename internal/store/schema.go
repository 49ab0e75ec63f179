package store

// Schema v1 - Initial database schema
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Artists, identified by a hash over the case-folded name
CREATE TABLE IF NOT EXISTS artists (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  name TEXT,
  identity_hash TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_artists_identity ON artists(identity_hash, user_id);

-- Genres, identified by the case-folded name
CREATE TABLE IF NOT EXISTS genres (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  lower_name TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_genres_identity ON genres(lower_name, user_id);

-- Albums, identified by a hash over the case-folded name and the album artist
CREATE TABLE IF NOT EXISTS albums (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  name TEXT,
  album_artist_id INTEGER NOT NULL REFERENCES artists(id),
  identity_hash TEXT NOT NULL,
  cover_file_id INTEGER,
  disk_count INTEGER NOT NULL DEFAULT 1
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_albums_identity ON albums(identity_hash, user_id);
CREATE INDEX IF NOT EXISTS idx_albums_artist ON albums(album_artist_id);
CREATE INDEX IF NOT EXISTS idx_albums_cover ON albums(cover_file_id);

-- Tracks, keyed by the file id assigned by the file tree
CREATE TABLE IF NOT EXISTS tracks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  file_id INTEGER NOT NULL,
  folder_id INTEGER NOT NULL,
  title TEXT NOT NULL,
  number INTEGER,
  disk INTEGER,
  year INTEGER,
  genre_id INTEGER REFERENCES genres(id),
  artist_id INTEGER NOT NULL REFERENCES artists(id),
  album_id INTEGER NOT NULL REFERENCES albums(id),
  mimetype TEXT NOT NULL,
  length INTEGER,
  bitrate INTEGER,
  dirty INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_tracks_file ON tracks(file_id, user_id);
CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_id);
CREATE INDEX IF NOT EXISTS idx_tracks_folder ON tracks(folder_id, user_id);

-- Playlists store an ordered track id list, not foreign keys
CREATE TABLE IF NOT EXISTS playlists (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  track_ids TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_playlists_user ON playlists(user_id);

-- Derived per-user key/value cache, always safe to drop
CREATE TABLE IF NOT EXISTS cache (
  user_id TEXT NOT NULL,
  key TEXT NOT NULL,
  data BLOB NOT NULL,
  PRIMARY KEY (user_id, key)
);
`
