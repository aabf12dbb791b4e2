package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/adilg123/huffman-compression-tool/internal/cache"
	"github.com/adilg123/huffman-compression-tool/internal/compression"
	"github.com/adilg123/huffman-compression-tool/internal/compression/algorithms/huffman"
	"github.com/adilg123/huffman-compression-tool/internal/config"
	"github.com/duke-git/lancet/v2/slice"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CompressRequest represents the compression request payload
type CompressRequest struct {
	Algorithm string `form:"algorithm"`
	BlockSize *int   `form:"block_size,omitempty"`
}

// DecompressRequest represents the decompression request payload
type DecompressRequest struct {
	Algorithm string `form:"algorithm"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// InspectResponse summarizes the header of a compressed upload
type InspectResponse struct {
	Padding     uint8        `json:"padding"`
	SymbolCount uint64       `json:"symbol_count"`
	HeaderSize  int          `json:"header_size"`
	PayloadSize int          `json:"payload_size"`
	Codes       []CodeResult `json:"codes"`
}

type CodeResult struct {
	Symbol int    `json:"symbol"`
	Code   string `json:"code"`
}

// Handler serves the compression endpoints.
type Handler struct {
	compressor  *compression.Compressor
	cache       *cache.ResultCache
	logger      zerolog.Logger
	maxFileSize int64
	blockSize   int
	workers     int
}

func NewHandler(cfg *config.Config, compressor *compression.Compressor, resultCache *cache.ResultCache, logger zerolog.Logger) *Handler {
	return &Handler{
		compressor:  compressor,
		cache:       resultCache,
		logger:      logger.With().Str("name", "api").Logger(),
		maxFileSize: cfg.MaxFileSize,
		blockSize:   cfg.Block.Size,
		workers:     cfg.Block.Workers,
	}
}

func abortWithError(c *gin.Context, status int, name, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   name,
		Code:    status,
		Message: message,
	})
}

// readUpload validates the algorithm and returns the uploaded file content
// and name. On failure the response has already been written.
func (h *Handler) readUpload(c *gin.Context, algorithm string) ([]byte, string, bool) {
	if !compression.IsValidAlgorithm(algorithm) {
		abortWithError(c, http.StatusBadRequest, "Invalid algorithm",
			fmt.Sprintf("Supported algorithms: %v", compression.GetSupportedAlgorithms()))
		return nil, "", false
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "File upload error", "No file provided or file upload failed")
		return nil, "", false
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		abortWithError(c, http.StatusBadRequest, "File too large",
			fmt.Sprintf("Maximum file size is %d bytes", h.maxFileSize))
		return nil, "", false
	}

	fileContent, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "File read error", "Failed to read uploaded file")
		return nil, "", false
	}
	if int64(len(fileContent)) > h.maxFileSize {
		abortWithError(c, http.StatusBadRequest, "File too large",
			fmt.Sprintf("Maximum file size is %d bytes", h.maxFileSize))
		return nil, "", false
	}
	return fileContent, header.Filename, true
}

func (h *Handler) failed(c *gin.Context, name string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, huffman.ErrCorruptStream):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, compression.ErrUnsupportedAlgorithm):
		status = http.StatusBadRequest
	}
	h.logger.Warn().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg(name)
	abortWithError(c, status, name, err.Error())
}

func writeResult(c *gin.Context, filename, contentType string, original, processed []byte, cached bool) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("X-Original-Size", strconv.Itoa(len(original)))
	c.Header("X-Processed-Size", strconv.Itoa(len(processed)))
	if len(original) > 0 {
		c.Header("X-Compression-Ratio", strconv.FormatFloat(float64(len(processed))/float64(len(original))*100, 'f', 2, 64))
	}
	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, contentType, processed)
}

// HandleCompress handles file compression requests
func (h *Handler) HandleCompress(c *gin.Context) {
	var req CompressRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if req.Algorithm == "" {
		req.Algorithm = compression.AlgorithmHuffman
	}

	fileContent, filename, ok := h.readUpload(c, req.Algorithm)
	if !ok {
		return
	}

	options := compression.Options{
		Algorithm: req.Algorithm,
		BlockSize: h.blockSize,
		Workers:   h.workers,
	}
	if req.BlockSize != nil && *req.BlockSize > 0 {
		options.BlockSize = *req.BlockSize
	}

	outName := fmt.Sprintf("%s_compressed.%s", getBaseFilename(filename), getExtensionForAlgorithm(req.Algorithm))
	key := cache.Key("compress", options.Algorithm, options.BlockSize, fileContent)
	if compressedData, hit := h.cache.Get(key); hit {
		writeResult(c, outName, "application/octet-stream", fileContent, compressedData, true)
		return
	}

	compressedData, _, err := h.compressor.Compress(fileContent, options)
	if err != nil {
		h.failed(c, "Compression failed", err)
		return
	}
	h.cache.Set(key, compressedData)
	writeResult(c, outName, "application/octet-stream", fileContent, compressedData, false)
}

// HandleDecompress handles file decompression requests
func (h *Handler) HandleDecompress(c *gin.Context) {
	var req DecompressRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if req.Algorithm == "" {
		req.Algorithm = compression.AlgorithmHuffman
	}

	fileContent, filename, ok := h.readUpload(c, req.Algorithm)
	if !ok {
		return
	}

	options := compression.Options{Algorithm: req.Algorithm, Workers: h.workers}
	outName := fmt.Sprintf("%s_decompressed.bin", getBaseFilename(filename))
	key := cache.Key("decompress", options.Algorithm, 0, fileContent)
	if decompressedData, hit := h.cache.Get(key); hit {
		writeResult(c, outName, "application/octet-stream", fileContent, decompressedData, true)
		return
	}

	decompressedData, _, err := h.compressor.Decompress(fileContent, options)
	if err != nil {
		h.failed(c, "Decompression failed", err)
		return
	}
	h.cache.Set(key, decompressedData)
	writeResult(c, outName, "application/octet-stream", fileContent, decompressedData, false)
}

// HandleInspect returns the header of a huffman stream without decoding it
func (h *Handler) HandleInspect(c *gin.Context) {
	fileContent, _, ok := h.readUpload(c, compression.AlgorithmHuffman)
	if !ok {
		return
	}

	header, err := huffman.Inspect(fileContent)
	if err != nil {
		h.failed(c, "Inspect failed", err)
		return
	}

	c.JSON(http.StatusOK, InspectResponse{
		Padding:     header.Padding,
		SymbolCount: header.SymbolCount,
		HeaderSize:  header.Size,
		PayloadSize: len(fileContent) - header.Size,
		Codes: slice.Map(header.CodeBook.Entries(), func(_ int, e huffman.Entry) CodeResult {
			return CodeResult{Symbol: int(e.Symbol), Code: string(e.Code)}
		}),
	})
}

// HandleInfo provides information about supported algorithms
func (h *Handler) HandleInfo(c *gin.Context) {
	info := map[string]interface{}{
		"service": "Huffman Compression Tool",
		"version": "1.0.0",
		"algorithms": map[string]interface{}{
			"supported": compression.GetSupportedAlgorithms(),
			"descriptions": map[string]string{
				"huffman":       "Huffman coding - lossless data compression using variable-length codes",
				"huffman-block": "Huffman coding over independently coded blocks, encoded in parallel",
			},
		},
		"limits": map[string]interface{}{
			"max_file_size": fmt.Sprintf("%d bytes (%.1f MB)", h.maxFileSize, float64(h.maxFileSize)/(1024*1024)),
			"block_size":    h.blockSize,
		},
		"cache": map[string]interface{}{
			"enabled": h.cache != nil,
			"entries": h.cache.Len(),
		},
		"endpoints": map[string]interface{}{
			"compress":   "POST /compress - Upload file for compression",
			"decompress": "POST /decompress - Upload file for decompression",
			"inspect":    "POST /api/v1/inspect - Show the header of a huffman stream",
			"info":       "GET /info - Get service information",
			"health":     "GET /health - Health check",
		},
	}

	c.JSON(http.StatusOK, info)
}

// HandleHealth provides a simple health check endpoint
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "compression-service",
	})
}

// Helper functions
func getBaseFilename(filename string) string {
	if filename == "" {
		return "file"
	}

	// Remove extension
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[:i]
		}
	}
	return filename
}

func getExtensionForAlgorithm(algorithm string) string {
	extensions := map[string]string{
		compression.AlgorithmHuffman:      "huff",
		compression.AlgorithmHuffmanBlock: "huffb",
	}

	if ext, exists := extensions[algorithm]; exists {
		return ext
	}
	return "compressed"
}
