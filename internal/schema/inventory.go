package schema

// RequiredTextFiles is the fixed inventory of the tabular folder in a
// SSURGO download package. README.txt rides along in the export but is
// optional when validating.
var RequiredTextFiles = []string{
	"ccancov.txt", "ccrpyd.txt", "cdfeat.txt", "cecoclas.txt",
	"ceplants.txt", "cerosnac.txt", "cfprod.txt", "cfprodo.txt",
	"cgeomord.txt", "chaashto.txt", "chconsis.txt", "chdsuffx.txt",
	"chfrags.txt", "chorizon.txt", "chpores.txt", "chstr.txt",
	"chstrgrp.txt", "chtexgrp.txt", "chtexmod.txt", "chtext.txt",
	"chtextur.txt", "chunifie.txt", "chydcrit.txt", "cinterp.txt",
	"cmonth.txt", "comp.txt", "cpmat.txt", "cpmatgrp.txt",
	"cpwndbrk.txt", "crstrcts.txt", "csfrags.txt", "csmoist.txt",
	"csmorgc.txt", "csmorhpp.txt", "csmormr.txt", "csmorss.txt",
	"cstemp.txt", "ctext.txt", "ctreestm.txt", "ctxfmmin.txt",
	"ctxfmoth.txt", "ctxmoicl.txt", "distimd.txt", "distlmd.txt",
	"distmd.txt", "lareao.txt", "legend.txt", "ltext.txt",
	"mapunit.txt", "msdomdet.txt", "msdommas.txt", "msidxdet.txt",
	"msidxmas.txt", "msrsdet.txt", "msrsmas.txt", "mstab.txt",
	"mstabcol.txt", "muaggatt.txt", "muareao.txt", "mucrpyd.txt",
	"mutext.txt", "sacatlog.txt", "sainterp.txt", "sdvalgorithm.txt",
	"sdvattribute.txt", "sdvfolder.txt", "sdvfolderattribute.txt",
	"version.txt", "README.txt",
}

// DatabaseTables is the exact set of tabular tables an RSS database
// carries. RSS products have no special feature tables, and the month
// and version tables are additions over the raw export.
var DatabaseTables = map[string]bool{
	"chaashto": true, "chconsistence": true, "chdesgnsuffix": true,
	"chfrags": true, "chorizon": true, "chpores": true, "chstruct": true,
	"chstructgrp": true, "chtext": true, "chtexture": true,
	"chtexturegrp": true, "chtexturemod": true, "chunified": true,
	"cocanopycover": true, "cocropyld": true, "codiagfeatures": true,
	"coecoclass": true, "coeplants": true, "coerosionacc": true,
	"coforprod": true, "coforprodo": true, "cogeomordesc": true,
	"cohydriccriteria": true, "cointerp": true, "comonth": true,
	"component": true, "copm": true, "copmgrp": true,
	"copwindbreak": true, "corestrictions": true, "cosoilmoist": true,
	"cosoiltemp": true, "cosurffrags": true, "cosurfmorphgc": true,
	"cosurfmorphhpp": true, "cosurfmorphmr": true, "cosurfmorphss": true,
	"cotaxfmmin": true, "cotaxmoistcl": true, "cotext": true,
	"cotreestomng": true, "cotxfmother": true, "distinterpmd": true,
	"distlegendmd": true, "distmd": true, "laoverlap": true,
	"legend": true, "legendtext": true, "mapunit": true,
	"mdstatdomdet": true, "mdstatdommas": true, "mdstatidxdet": true,
	"mdstatidxmas": true, "mdstatrshipdet": true, "mdstatrshipmas": true,
	"mdstattabcols": true, "mdstattabs": true, "month": true,
	"muaggatt": true, "muaoverlap": true, "mucropyld": true,
	"mutext": true, "sacatalog": true, "sainterp": true,
	"sdvalgorithm": true, "sdvattribute": true, "sdvfolder": true,
	"sdvfolderattribute": true, "version": true,
}

// MapunitColumns is the column order of mapunit.txt, used when the file
// is read outside a built database (the validator's key comparison).
var MapunitColumns = []string{
	"musym", "muname", "mukind", "mustatus", "muacres", "mapunitlfw_l",
	"mapunitlfw_r", "mapunitlfw_h", "mapunitpfa_l", "mapunitpfa_r",
	"mapunitpfa_h", "farmlndcl", "muhelcl", "muwathelcl", "muwndhelcl",
	"interpfocus", "invesintens", "iacornsr", "nhiforsoigrp",
	"nhspiagr", "vtsepticsyscl", "mucertstat", "lkey", "mukey",
}
