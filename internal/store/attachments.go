package store

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"snip/internal/apperror"
	"snip/internal/ident"
	"snip/internal/models"
)

const (
	attachmentTable      = "snip_attachment"
	attachmentDataColumn = "data"
	attachmentColumns    = "uuid, snip_uuid, timestamp, name, size"
	mainDatabase         = "main"
)

// AddAttachment reads the file at path and stores it as a new attachment
// owned by owner. The row is inserted with a zero-filled payload of the
// right size and the bytes are then written into that slot in place.
// The owner is not checked for existence.
func (s *Store) AddAttachment(owner ident.ID, path string) (_ *models.Attachment, err error) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return nil, apperror.IO(path, fmt.Errorf("path has no file name"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.IO(path, err)
	}

	attachment := &models.Attachment{
		ID:        ident.New(),
		SnippetID: owner,
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Data:      data,
		Size:      int64(len(data)),
	}

	release := sqlitex.Save(s.conn)
	defer release(&err)

	err = sqlitex.Execute(s.conn, `
		INSERT INTO snip_attachment (uuid, snip_uuid, timestamp, name, data, size)
		VALUES (?, ?, ?, ?, zeroblob(?), ?)
	`, &sqlitex.ExecOptions{
		Args: []any{
			attachment.ID.String(),
			attachment.SnippetID.String(),
			formatTime(attachment.CreatedAt),
			attachment.Name,
			attachment.Size,
			attachment.Size,
		},
	})
	if err != nil {
		return nil, apperror.Storage("insert attachment", err)
	}
	if changed := s.conn.Changes(); changed != 1 {
		err = apperror.Storage("insert attachment", fmt.Errorf("expected 1 row affected, got %d", changed))
		return nil, err
	}

	if err = s.writeAttachmentData(s.conn.LastInsertRowID(), attachment.Data); err != nil {
		return nil, err
	}
	return attachment, nil
}

func (s *Store) writeAttachmentData(rowID int64, data []byte) (err error) {
	if len(data) == 0 {
		return nil
	}
	blob, err := s.conn.OpenBlob(mainDatabase, attachmentTable, attachmentDataColumn, rowID, true)
	if err != nil {
		return apperror.Storage("open attachment blob for write", err)
	}
	defer func() {
		if closeErr := blob.Close(); closeErr != nil && err == nil {
			err = apperror.Storage("close attachment blob", closeErr)
		}
	}()

	// A fresh handle is positioned at offset 0 of the zeroblob.
	n, err := blob.Write(data)
	if err != nil {
		return apperror.Storage("write attachment blob", err)
	}
	if n != len(data) {
		return apperror.Storage("write attachment blob", fmt.Errorf("short write: %d of %d bytes", n, len(data)))
	}
	return nil
}

// GetAttachment returns the attachment with exactly id, payload included.
func (s *Store) GetAttachment(id ident.ID) (*models.Attachment, error) {
	info, rowID, err := s.attachmentRow(id)
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		ID:        info.ID,
		SnippetID: info.SnippetID,
		CreatedAt: info.CreatedAt,
		Name:      info.Name,
		Size:      info.Size,
	}
	var buf bytes.Buffer
	if info.Size > 0 {
		buf.Grow(int(info.Size))
		if _, err := s.copyBlob(rowID, &buf); err != nil {
			return nil, err
		}
	}
	attachment.Data = buf.Bytes()
	if int64(len(attachment.Data)) != attachment.Size {
		return nil, apperror.Storage("read attachment blob", fmt.Errorf("size mismatch: stored %d, read %d bytes", attachment.Size, len(attachment.Data)))
	}
	return attachment, nil
}

// CopyAttachmentData streams the payload of attachment id into w without
// materializing it.
func (s *Store) CopyAttachmentData(id ident.ID, w io.Writer) (int64, error) {
	info, rowID, err := s.attachmentRow(id)
	if err != nil {
		return 0, err
	}
	if info.Size == 0 {
		return 0, nil
	}
	return s.copyBlob(rowID, w)
}

// GetAttachmentInfo returns attachment metadata without the payload.
func (s *Store) GetAttachmentInfo(id ident.ID) (*models.AttachmentInfo, error) {
	info, _, err := s.attachmentRow(id)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ListAttachmentIDs returns every attachment id in backend scan order.
func (s *Store) ListAttachmentIDs() ([]ident.ID, error) {
	ids := []ident.ID{}
	err := sqlitex.Execute(s.conn, `SELECT uuid FROM snip_attachment`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id, err := columnID(stmt, 0)
			if err != nil {
				return err
			}
			ids = append(ids, id)
			return nil
		},
	})
	if err != nil {
		return nil, storageErr("list attachment ids", err)
	}
	return ids, nil
}

// ListAttachments returns metadata of the attachments owned by owner.
func (s *Store) ListAttachments(owner ident.ID) ([]models.AttachmentInfo, error) {
	infos := []models.AttachmentInfo{}
	err := sqlitex.Execute(s.conn, `SELECT `+attachmentColumns+`, rowid FROM snip_attachment WHERE snip_uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{owner.String()},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			info, _, err := scanAttachmentInfo(stmt)
			if err != nil {
				return err
			}
			infos = append(infos, info)
			return nil
		},
	})
	if err != nil {
		return nil, storageErr("list attachments", err)
	}
	return infos, nil
}

// RemoveAttachment deletes a's row and payload. Anything other than
// exactly one deleted row is reported as a storage error.
func (s *Store) RemoveAttachment(a *models.Attachment) error {
	if a == nil {
		return fmt.Errorf("attachment is required")
	}
	err := sqlitex.Execute(s.conn, `DELETE FROM snip_attachment WHERE uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{a.ID.String()},
	})
	if err != nil {
		return apperror.Storage("remove attachment", err)
	}
	if changed := s.conn.Changes(); changed != 1 {
		return apperror.Storage("remove attachment", fmt.Errorf("expected 1 row affected, got %d", changed))
	}
	return nil
}

func (s *Store) attachmentRow(id ident.ID) (*models.AttachmentInfo, int64, error) {
	var (
		info  *models.AttachmentInfo
		rowID int64
	)
	err := sqlitex.Execute(s.conn, `SELECT `+attachmentColumns+`, rowid FROM snip_attachment WHERE uuid = ?`, &sqlitex.ExecOptions{
		Args: []any{id.String()},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			if info != nil {
				return fmt.Errorf("duplicate attachment id %s", id)
			}
			scanned, scannedRowID, err := scanAttachmentInfo(stmt)
			if err != nil {
				return err
			}
			info = &scanned
			rowID = scannedRowID
			return nil
		},
	})
	if err != nil {
		return nil, 0, storageErr("get attachment", err)
	}
	if info == nil {
		return nil, 0, apperror.NotFound(Attachments.String(), id.String())
	}
	return info, rowID, nil
}

func (s *Store) copyBlob(rowID int64, w io.Writer) (n int64, err error) {
	blob, err := s.conn.OpenBlob(mainDatabase, attachmentTable, attachmentDataColumn, rowID, false)
	if err != nil {
		return 0, apperror.Storage("open attachment blob for read", err)
	}
	defer func() {
		if closeErr := blob.Close(); closeErr != nil && err == nil {
			err = apperror.Storage("close attachment blob", closeErr)
		}
	}()

	n, err = io.Copy(w, blob)
	if err != nil {
		return n, apperror.Storage("read attachment blob", err)
	}
	return n, nil
}

func scanAttachmentInfo(stmt *sqlite.Stmt) (models.AttachmentInfo, int64, error) {
	id, err := columnID(stmt, 0)
	if err != nil {
		return models.AttachmentInfo{}, 0, err
	}
	owner, err := columnID(stmt, 1)
	if err != nil {
		return models.AttachmentInfo{}, 0, err
	}
	return models.AttachmentInfo{
		ID:        id,
		SnippetID: owner,
		CreatedAt: mustParseTime(stmt.ColumnText(2)),
		Name:      stmt.ColumnText(3),
		Size:      stmt.ColumnInt64(4),
	}, stmt.ColumnInt64(5), nil
}

func storageErr(op string, err error) error {
	if apperror.KindOf(err) != apperror.KindUnknown {
		return err
	}
	return apperror.Storage(op, err)
}
