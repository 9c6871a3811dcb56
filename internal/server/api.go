package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mendonca-galvao/horaextra/internal/batch"
	"github.com/mendonca-galvao/horaextra/internal/export"
	"github.com/mendonca-galvao/horaextra/internal/reader"
	"github.com/mendonca-galvao/horaextra/internal/session"
)

const markdownContentType = "text/markdown; charset=utf-8"

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// dataURLFile is one file of a JSON upload.
type dataURLFile struct {
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
}

// createBatch accepts multipart uploads (field "files") or a JSON body
// {"files": [{"name", "dataUrl"}]} and starts processing in the background.
func (s *Server) createBatch(c *fiber.Ctx) error {
	var (
		files []reader.Source
		err   error
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		files, err = s.jsonFiles(c)
	} else {
		files, err = s.multipartFiles(c)
	}
	if err != nil {
		return err
	}

	id, err := s.orch.Start(s.ctx, files, s.opts.OnBatchDone)
	switch {
	case errors.Is(err, batch.ErrNoFiles):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, batch.ErrBatchInFlight):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case err != nil:
		return err
	}

	s.log.Info().Str("batch", id).Int("files", len(files)).Msg("batch accepted")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"batchId": id})
}

func (s *Server) multipartFiles(c *fiber.Ctx) ([]reader.Source, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, batch.ErrNoFiles.Error())
	}
	headers := form.File["files"]
	files := make([]reader.Source, 0, len(headers))
	for _, fh := range headers {
		files = append(files, bufferUpload(fh))
	}
	return files, nil
}

// bufferUpload copies an upload into memory; the request body does not
// outlive the handler.
func bufferUpload(fh *multipart.FileHeader) reader.Source {
	mediaType := fh.Header.Get(fiber.HeaderContentType)
	f, err := fh.Open()
	if err != nil {
		return reader.Failed(fh.Filename, mediaType, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return reader.Failed(fh.Filename, mediaType, err)
	}
	return accept(reader.FromBytes(fh.Filename, mediaType, data))
}

func (s *Server) jsonFiles(c *fiber.Ctx) ([]reader.Source, error) {
	var body struct {
		Files []dataURLFile `json:"files"`
	}
	if err := c.BodyParser(&body); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	files := make([]reader.Source, 0, len(body.Files))
	for _, f := range body.Files {
		p, err := reader.ParseDataURL(f.Name, f.DataURL)
		if err != nil {
			files = append(files, reader.Failed(f.Name, "", err))
			continue
		}
		data, err := p.Bytes()
		if err != nil {
			files = append(files, reader.Failed(f.Name, p.MediaType, err))
			continue
		}
		files = append(files, accept(reader.FromBytes(p.Name, p.MediaType, data)))
	}
	return files, nil
}

// accept turns sources of unsupported media types into failing sources, so
// they end in the error state like any unreadable file.
func accept(src reader.Source) reader.Source {
	if reader.Supported(src.MediaType()) {
		return src
	}
	return reader.Failed(src.Name(), src.MediaType(),
		fmt.Errorf("unsupported media type %q", src.MediaType()))
}

func (s *Server) status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"processing": s.orch.Running(),
		"entries":    s.session.Status.Entries(),
	})
}

func (s *Server) records(c *fiber.Ctx) error {
	records := s.session.Records.Snapshot()
	return c.JSON(fiber.Map{
		"records": records,
		"summary": session.Summarize(records),
	})
}

func (s *Server) exportXLSX(c *fiber.Ctx) error {
	data, err := export.XLSX(s.session.Records.Snapshot())
	if errors.Is(err, export.ErrEmpty) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return err
	}
	c.Attachment(export.Filename(s.opts.ExportPrefix, s.now(), "xlsx"))
	c.Set(fiber.HeaderContentType, export.XLSXContentType)
	return c.Send(data)
}

func (s *Server) exportMarkdown(c *fiber.Ctx) error {
	md := export.Markdown(s.session.Records.Snapshot())
	if md == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, markdownContentType)
	return c.SendString(md)
}

// saveExport writes an export to the configured destination.
// Query: format=xlsx (default) or format=markdown.
func (s *Server) saveExport(c *fiber.Ctx) error {
	if s.opts.Destination == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no export destination configured")
	}
	records := s.session.Records.Snapshot()
	if len(records) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	var (
		data        []byte
		ext         string
		contentType string
	)
	switch format := c.Query("format", "xlsx"); format {
	case "xlsx":
		b, err := export.XLSX(records)
		if err != nil {
			return err
		}
		data, ext, contentType = b, "xlsx", export.XLSXContentType
	case "markdown", "md":
		data, ext, contentType = []byte(export.Markdown(records)), "md", markdownContentType
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown export format %q", format))
	}

	name := export.Filename(s.opts.ExportPrefix, s.now(), ext)
	where, err := s.opts.Destination.Put(c.UserContext(), name, contentType, data)
	if err != nil {
		return err
	}
	s.log.Info().Str("location", where).Int("records", len(records)).Msg("export saved")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"location": where})
}
